package filter

import "github.com/solatis/recordfilter/internal/types"

// RemoteSort is one entry of the remote sort list.
type RemoteSort struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

// TranslateSorts maps sort rules 1:1 onto remote sorts, preserving order.
// Nothing is filtered or merged; an empty input yields an empty slice.
func TranslateSorts(rules []types.SortRule) []RemoteSort {
	out := make([]RemoteSort, len(rules))
	for i, r := range rules {
		out[i] = RemoteSort{Property: r.Property, Direction: string(r.Direction)}
	}
	return out
}
