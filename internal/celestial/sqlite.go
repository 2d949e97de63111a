package celestial

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go sqlite driver

	"aios/internal/logging"
)

// SQLiteStore persists the celestial memory in a SQLite database so clouds
// and nodes survive across shell sessions. Nearest-neighbor queries are
// computed by the database with an ORDER BY on squared distance, which is
// plenty for the store sizes this shell sees.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS emotion_clouds (
	id        TEXT PRIMARY KEY,
	x         REAL NOT NULL,
	y         REAL NOT NULL,
	z         REAL NOT NULL,
	r         INTEGER NOT NULL,
	g         INTEGER NOT NULL,
	b         INTEGER NOT NULL,
	a         INTEGER NOT NULL,
	intensity REAL NOT NULL,
	shape     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS resonant_nodes (
	id      TEXT PRIMARY KEY,
	x       REAL NOT NULL,
	y       REAL NOT NULL,
	z       REAL NOT NULL,
	related TEXT NOT NULL,
	pointer TEXT NOT NULL
);
`

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open celestial database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("verify celestial database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create celestial schema: %w", err)
	}
	logging.Memory("sqlite celestial store opened at %s", path)
	return &SQLiteStore{db: db}, nil
}

var _ Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) StoreCloud(ctx context.Context, cloud EmotionCloud) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM emotion_clouds WHERE id = ?`, cloud.ID).Scan(&exists)
	if err == nil {
		return existsErr("emotion cloud", cloud.ID)
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("check cloud %q: %w", cloud.ID, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO emotion_clouds (id, x, y, z, r, g, b, a, intensity, shape)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cloud.ID, cloud.Position[0], cloud.Position[1], cloud.Position[2],
		cloud.Color[0], cloud.Color[1], cloud.Color[2], cloud.Color[3],
		cloud.Intensity, cloud.Shape)
	if err != nil {
		return fmt.Errorf("insert cloud %q: %w", cloud.ID, err)
	}
	return tx.Commit()
}

func scanCloud(scan func(dest ...any) error) (EmotionCloud, error) {
	var c EmotionCloud
	var x, y, z, intensity float64
	var r, g, b, a int
	if err := scan(&c.ID, &x, &y, &z, &r, &g, &b, &a, &intensity, &c.Shape); err != nil {
		return EmotionCloud{}, err
	}
	c.Position = [3]float32{float32(x), float32(y), float32(z)}
	c.Color = [4]uint8{uint8(r), uint8(g), uint8(b), uint8(a)}
	c.Intensity = float32(intensity)
	return c, nil
}

func (s *SQLiteStore) GetCloud(ctx context.Context, id string) (EmotionCloud, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, x, y, z, r, g, b, a, intensity, shape FROM emotion_clouds WHERE id = ?`, id)
	cloud, err := scanCloud(row.Scan)
	if err == sql.ErrNoRows {
		return EmotionCloud{}, notFoundErr("emotion cloud", id)
	}
	if err != nil {
		return EmotionCloud{}, fmt.Errorf("get cloud %q: %w", id, err)
	}
	return cloud, nil
}

func (s *SQLiteStore) ListClouds(ctx context.Context) ([]EmotionCloud, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, x, y, z, r, g, b, a, intensity, shape FROM emotion_clouds`)
	if err != nil {
		return nil, fmt.Errorf("list clouds: %w", err)
	}
	defer rows.Close()

	var out []EmotionCloud
	for rows.Next() {
		cloud, err := scanCloud(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan cloud: %w", err)
		}
		out = append(out, cloud)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateCloud(ctx context.Context, cloud EmotionCloud) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE emotion_clouds SET x=?, y=?, z=?, r=?, g=?, b=?, a=?, intensity=?, shape=? WHERE id=?`,
		cloud.Position[0], cloud.Position[1], cloud.Position[2],
		cloud.Color[0], cloud.Color[1], cloud.Color[2], cloud.Color[3],
		cloud.Intensity, cloud.Shape, cloud.ID)
	if err != nil {
		return fmt.Errorf("update cloud %q: %w", cloud.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundErr("emotion cloud", cloud.ID)
	}
	return nil
}

func (s *SQLiteStore) RemoveCloud(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM emotion_clouds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove cloud %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundErr("emotion cloud", id)
	}
	return nil
}

func (s *SQLiteStore) StoreNode(ctx context.Context, node ResonantNode) error {
	related, err := json.Marshal(node.RelatedCloudIDs)
	if err != nil {
		return fmt.Errorf("encode related ids: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM resonant_nodes WHERE id = ?`, node.ID).Scan(&exists)
	if err == nil {
		return existsErr("resonant node", node.ID)
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("check node %q: %w", node.ID, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO resonant_nodes (id, x, y, z, related, pointer) VALUES (?, ?, ?, ?, ?, ?)`,
		node.ID, node.Position[0], node.Position[1], node.Position[2], string(related), node.Pointer)
	if err != nil {
		return fmt.Errorf("insert node %q: %w", node.ID, err)
	}
	return tx.Commit()
}

func scanNode(scan func(dest ...any) error) (ResonantNode, error) {
	var n ResonantNode
	var x, y, z float64
	var related string
	if err := scan(&n.ID, &x, &y, &z, &related, &n.Pointer); err != nil {
		return ResonantNode{}, err
	}
	n.Position = [3]float32{float32(x), float32(y), float32(z)}
	if err := json.Unmarshal([]byte(related), &n.RelatedCloudIDs); err != nil {
		return ResonantNode{}, fmt.Errorf("decode related ids: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) GetNode(ctx context.Context, id string) (ResonantNode, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, x, y, z, related, pointer FROM resonant_nodes WHERE id = ?`, id)
	node, err := scanNode(row.Scan)
	if err == sql.ErrNoRows {
		return ResonantNode{}, notFoundErr("resonant node", id)
	}
	if err != nil {
		return ResonantNode{}, fmt.Errorf("get node %q: %w", id, err)
	}
	return node, nil
}

func (s *SQLiteStore) ListNodes(ctx context.Context) ([]ResonantNode, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, x, y, z, related, pointer FROM resonant_nodes`)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	defer rows.Close()

	var out []ResonantNode
	for rows.Next() {
		node, err := scanNode(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		out = append(out, node)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateNode(ctx context.Context, node ResonantNode) error {
	related, err := json.Marshal(node.RelatedCloudIDs)
	if err != nil {
		return fmt.Errorf("encode related ids: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE resonant_nodes SET x=?, y=?, z=?, related=?, pointer=? WHERE id=?`,
		node.Position[0], node.Position[1], node.Position[2], string(related), node.Pointer, node.ID)
	if err != nil {
		return fmt.Errorf("update node %q: %w", node.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundErr("resonant node", node.ID)
	}
	return nil
}

func (s *SQLiteStore) RemoveNode(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM resonant_nodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove node %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundErr("resonant node", id)
	}
	return nil
}

func (s *SQLiteStore) NearestClouds(ctx context.Context, pos [3]float32, k int) ([]CloudMatch, error) {
	if k <= 0 {
		k = 3
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, x, y, z, r, g, b, a, intensity, shape,
		        ((x-?1)*(x-?1) + (y-?2)*(y-?2) + (z-?3)*(z-?3)) AS dist
		 FROM emotion_clouds ORDER BY dist LIMIT ?4`,
		pos[0], pos[1], pos[2], k)
	if err != nil {
		return nil, fmt.Errorf("nearest clouds: %w", err)
	}
	defer rows.Close()

	var out []CloudMatch
	for rows.Next() {
		var c EmotionCloud
		var x, y, z, intensity, dist float64
		var r, g, b, a int
		if err := rows.Scan(&c.ID, &x, &y, &z, &r, &g, &b, &a, &intensity, &c.Shape, &dist); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		c.Position = [3]float32{float32(x), float32(y), float32(z)}
		c.Color = [4]uint8{uint8(r), uint8(g), uint8(b), uint8(a)}
		c.Intensity = float32(intensity)
		out = append(out, CloudMatch{Cloud: c, Distance: float32(dist)})
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
