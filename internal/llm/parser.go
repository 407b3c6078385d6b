package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/minuteman-notes/minuteman/internal/common"
)

// cleanMarkdownWrapper strips code fences some models wrap around JSON
// despite instructions.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}
	return content
}

// parseClassifyResponse decodes and validates the strict classification
// shape. Any structural failure maps to ErrMalformedResponse so the
// transport retries it.
func parseClassifyResponse(content string) (ClassifyResponse, error) {
	var resp ClassifyResponse
	if err := json.Unmarshal([]byte(cleanMarkdownWrapper(content)), &resp); err != nil {
		return ClassifyResponse{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	if resp.Type == "" {
		return ClassifyResponse{}, fmt.Errorf("%w: missing type", common.ErrMalformedResponse)
	}
	if resp.Confidence < 0 || resp.Confidence > 1 {
		return ClassifyResponse{}, fmt.Errorf("%w: confidence %.3f out of range", common.ErrMalformedResponse, resp.Confidence)
	}
	if len(resp.Evidence) == 0 {
		return ClassifyResponse{}, fmt.Errorf("%w: missing evidence", common.ErrMalformedResponse)
	}
	return resp, nil
}

// parseExtractResponse decodes and validates the strict extraction shape.
func parseExtractResponse(content string) (ExtractResponse, error) {
	var resp ExtractResponse
	if err := json.Unmarshal([]byte(cleanMarkdownWrapper(content)), &resp); err != nil {
		return ExtractResponse{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	for _, group := range [][]ExtractedItem{resp.Decisions, resp.Actions, resp.Mentions} {
		for _, item := range group {
			if item.Text == "" {
				return ExtractResponse{}, fmt.Errorf("%w: extracted item missing text", common.ErrMalformedResponse)
			}
		}
	}
	return resp, nil
}
