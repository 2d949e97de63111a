package main

import (
	"encoding/json"
	"fmt"
)

func isJSONOutput() bool {
	return outputFormat == "json"
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
