package life

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveRelations writes m to path as a JSON table.
func SaveRelations(path string, m *RelationMatrix) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding relations: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing relations: %w", err)
	}
	return nil
}

// LoadRelations reads a JSON table written by SaveRelations.
func LoadRelations(path string) (*RelationMatrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading relations: %w", err)
	}
	m := &RelationMatrix{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decoding relations: %w", err)
	}
	return m, nil
}
