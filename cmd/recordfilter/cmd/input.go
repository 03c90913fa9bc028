package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/solatis/recordfilter/internal/types"
)

// readInput returns the contents of path, of stdin for "-", or nil for "".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	switch path {
	case "":
		return nil, nil
	case "-":
		return io.ReadAll(cmd.InOrStdin())
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return data, nil
	}
}

// readFilter decodes the filter tree at path (nil when path is empty).
func readFilter(cmd *cobra.Command, path string) (types.FilterNode, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	node, err := types.DecodeNode(data)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %s: %w", path, err)
	}
	return node, nil
}

// readSorts decodes the sort list at path (empty when path is empty).
func readSorts(cmd *cobra.Command, path string) ([]types.SortRule, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	sorts, err := types.DecodeSorts(data)
	if err != nil {
		return nil, fmt.Errorf("invalid sorts %s: %w", path, err)
	}
	return sorts, nil
}

// readRecords decodes a JSON array of record objects.
func readRecords(cmd *cobra.Command, path string) ([]types.Record, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("--records is required")
	}
	var records []types.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid records %s: %w", path, err)
	}
	return records, nil
}

// writeJSON prints v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
