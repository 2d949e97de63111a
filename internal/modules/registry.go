// Package modules implements the module registry backed by the flat JSON
// "blockchain" ledger. Each ledger entry pairs a module file name with the
// SHA-256 of its content; verification re-hashes the file and compares.
package modules

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"aios/internal/logging"
	"aios/internal/osfs"
)

// Entry is one ledger record. The ledger is an unordered JSON array of
// these, nothing links one entry to the next.
type Entry struct {
	ModuleName string `json:"module_name"`
	Hash       string `json:"hash"`
}

// VerifyStatus is the outcome of checking a module against the ledger.
type VerifyStatus string

const (
	StatusVerified     VerifyStatus = "verified"
	StatusMismatch     VerifyStatus = "mismatch"
	StatusUnregistered VerifyStatus = "unregistered"
)

// VerifyResult carries the verification outcome for one module. Want and
// Got are only set on a mismatch.
type VerifyResult struct {
	Module string       `json:"module"`
	Status VerifyStatus `json:"status"`
	Want   string       `json:"want,omitempty"`
	Got    string       `json:"got,omitempty"`
}

// verifyAllWorkers caps concurrent file hashing in VerifyAll.
const verifyAllWorkers = 4

// Registry manages the module ledger. All methods are safe for concurrent
// use; the ledger file is rewritten whole on every mutation.
type Registry struct {
	fs         osfs.FileSystem
	dir        string // directory module files live in
	ledgerPath string

	mu      sync.Mutex
	entries []Entry
}

// NewRegistry loads the ledger at ledgerPath. A missing ledger is
// initialized to an empty array, an unreadable or corrupt one produces a
// warning and an empty registry, matching how the shell has always treated
// a damaged blockchain file.
func NewRegistry(fs osfs.FileSystem, dir, ledgerPath string) *Registry {
	r := &Registry{fs: fs, dir: dir, ledgerPath: ledgerPath}
	r.entries = r.loadLedger()
	return r
}

func (r *Registry) loadLedger() []Entry {
	if !r.fs.PathExists(r.ledgerPath) {
		if err := r.fs.WriteFile(r.ledgerPath, []byte("[]")); err != nil {
			logging.ModulesWarn("cannot initialize ledger %s: %v", r.ledgerPath, err)
		} else {
			logging.Modules("initialized empty ledger at %s", r.ledgerPath)
		}
		return nil
	}

	data, err := r.fs.ReadFile(r.ledgerPath)
	if err != nil {
		logging.ModulesWarn("cannot read ledger %s: %v, starting empty", r.ledgerPath, err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		logging.ModulesWarn("cannot parse ledger %s: %v, starting empty", r.ledgerPath, err)
		return nil
	}
	return entries
}

// saveLocked persists the entries. Callers hold r.mu.
func (r *Registry) saveLocked() error {
	data, err := json.MarshalIndent(r.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := r.fs.WriteFile(r.ledgerPath, data); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

// ModulePath returns the path a module file is expected at.
func (r *Registry) ModulePath(name string) string {
	return filepath.Join(r.dir, name)
}

// Dir returns the directory module files live in.
func (r *Registry) Dir() string { return r.dir }

// HashModule computes the hex SHA-256 of a module file's bytes.
func (r *Registry) HashModule(name string) (string, error) {
	data, err := r.fs.ReadFile(r.ModulePath(name))
	if err != nil {
		return "", fmt.Errorf("hash module %s: %w", name, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Register hashes the named module file and appends an entry to the
// ledger. Registering the same name again appends a fresh entry; Lookup
// and Verify use the first match, so the original registration wins until
// it is replaced by editing the ledger.
func (r *Registry) Register(name string) (Entry, error) {
	if !r.fs.PathExists(r.ModulePath(name)) {
		return Entry{}, fmt.Errorf("module file %q not found", r.ModulePath(name))
	}
	hash, err := r.HashModule(name)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{ModuleName: name, Hash: hash}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	if err := r.saveLocked(); err != nil {
		r.entries = r.entries[:len(r.entries)-1]
		return Entry{}, err
	}

	logging.Modules("registered %s with hash %s", name, hash)
	return entry, nil
}

// Lookup returns the first ledger entry for name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ModuleName == name {
			return e, true
		}
	}
	return Entry{}, false
}

// List returns a copy of all ledger entries.
func (r *Registry) List() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Verify re-hashes the module file and compares it with the ledger.
// A missing module file is an error, not a status.
func (r *Registry) Verify(name string) (VerifyResult, error) {
	if !r.fs.PathExists(r.ModulePath(name)) {
		return VerifyResult{}, fmt.Errorf("module %s not found at %s", name, r.ModulePath(name))
	}
	got, err := r.HashModule(name)
	if err != nil {
		return VerifyResult{}, err
	}

	entry, ok := r.Lookup(name)
	if !ok {
		return VerifyResult{Module: name, Status: StatusUnregistered}, nil
	}
	if entry.Hash != got {
		return VerifyResult{Module: name, Status: StatusMismatch, Want: entry.Hash, Got: got}, nil
	}
	return VerifyResult{Module: name, Status: StatusVerified}, nil
}

// Run verifies the module and, on success, returns the simulated execution
// message. There is no real module runtime behind this.
func (r *Registry) Run(name string, args []string) (string, error) {
	res, err := r.Verify(name)
	if err != nil {
		return "", err
	}
	switch res.Status {
	case StatusVerified:
		return fmt.Sprintf("Module %s verified. (Simulating execution with args: %v)", name, args), nil
	case StatusMismatch:
		return "", fmt.Errorf("module %s integrity check failed! Hashes do not match. Expected: %s, Got: %s",
			name, res.Want, res.Got)
	default:
		return "", fmt.Errorf("module %s not registered in blockchain", name)
	}
}

// VerifyAll re-verifies every registered module concurrently. Modules whose
// files are missing are reported as mismatches with an empty Got hash rather
// than failing the whole sweep.
func (r *Registry) VerifyAll(ctx context.Context) ([]VerifyResult, error) {
	entries := r.List()
	results := make([]VerifyResult, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(verifyAllWorkers)

	for i, entry := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			got, err := r.HashModule(entry.ModuleName)
			if err != nil {
				results[i] = VerifyResult{Module: entry.ModuleName, Status: StatusMismatch, Want: entry.Hash}
				return nil
			}
			if got != entry.Hash {
				results[i] = VerifyResult{Module: entry.ModuleName, Status: StatusMismatch, Want: entry.Hash, Got: got}
				return nil
			}
			results[i] = VerifyResult{Module: entry.ModuleName, Status: StatusVerified}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
