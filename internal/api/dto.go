package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/slidearchitect/internal/aiconnectors"
	"github.com/slidearchitect/internal/apperr"
	"github.com/slidearchitect/internal/pipeline"
	"github.com/slidearchitect/pkg/models"
)

type planRequest struct {
	TemplateImages []string `json:"template_images"`
	UserContent    string   `json:"user_content"`
	Language       string   `json:"language"`
	MaxSlides      int      `json:"max_slides"`
}

type planResponse struct {
	Success bool                     `json:"success"`
	Plan    *models.PresentationPlan `json:"plan"`
	Trace   pipeline.Trace           `json:"trace"`
}

type cloningPlanRequest struct {
	PPTXBase64  string `json:"pptx_base64"`
	UserContent string `json:"user_content"`
	Language    string `json:"language"`
}

type cloningPlanResponse struct {
	Success      bool                        `json:"success"`
	Instructions *models.CloningInstructions `json:"instructions"`
	Template     *models.TemplateDescriptor  `json:"template"`
	Trace        pipeline.Trace              `json:"trace"`
}

type presentationRequest struct {
	PPTXBase64   string          `json:"pptx_base64"`
	Instructions json.RawMessage `json:"instructions"` // validated by the pipeline
	Language     string          `json:"language"`
}

type presentationResponse struct {
	Success    bool           `json:"success"`
	FileBase64 string         `json:"file_base64"` // data URL
	FileName   string         `json:"file_name"`
	Trace      pipeline.Trace `json:"trace"`
}

type inspectRequest struct {
	PPTXBase64 string `json:"pptx_base64"`
	Language   string `json:"language"`
}

type inspectResponse struct {
	Success  bool                       `json:"success"`
	Template *models.TemplateDescriptor `json:"template"`
	Summary  string                     `json:"summary"`
	Prompt   string                     `json:"prompt"`
}

type errorBody struct {
	Code    apperr.Kind `json:"code"`
	Message string      `json:"message"`
	Details string      `json:"details,omitempty"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// decodeDataURL decodes plain base64 or a data URL, returning the declared
// media type when there is one.
func decodeDataURL(s string) (string, []byte, error) {
	s = strings.TrimSpace(s)
	mediaType := ""
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		header, payload, found := strings.Cut(rest, ",")
		if !found {
			return "", nil, fmt.Errorf("malformed data URL")
		}
		if !strings.HasSuffix(header, ";base64") {
			return "", nil, fmt.Errorf("data URL is not base64 encoded")
		}
		mediaType = strings.TrimSuffix(header, ";base64")
		s = payload
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64: %w", err)
	}
	return mediaType, data, nil
}

func dataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func decodeImages(in []string) ([]aiconnectors.Image, error) {
	out := make([]aiconnectors.Image, 0, len(in))
	for i, s := range in {
		mediaType, data, err := decodeDataURL(s)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidInput, err, "template image %d could not be decoded", i)
		}
		out = append(out, aiconnectors.Image{MediaType: mediaType, Data: data})
	}
	return out, nil
}

func decodeTemplate(s string) ([]byte, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	_, data, err := decodeDataURL(s)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, err, "template file could not be decoded")
	}
	return data, nil
}
