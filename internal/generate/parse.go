package generate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/benredmond/stratval/pkg/models"
)

// ExtractCandidates pulls the JSON candidate array out of a model
// response. The model is told to return only the array, but responses
// sometimes arrive wrapped in prose or a markdown fence, so we scan
// for the outermost brackets rather than unmarshal the raw text.
func ExtractCandidates(response string) ([]*models.Candidate, error) {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var batch []*models.Candidate
	if err := json.Unmarshal([]byte(response[start:end+1]), &batch); err != nil {
		return nil, fmt.Errorf("failed to parse candidates JSON: %w", err)
	}

	if len(batch) == 0 {
		return nil, fmt.Errorf("response contained an empty candidate array")
	}
	return batch, nil
}
