// Package generator turns a template and validated cloning instructions into
// a new .pptx document.
package generator

import (
	"context"
	"time"

	"github.com/slidearchitect/pkg/models"
)

// Generator produces the bytes of a generated presentation. Instructions
// handed to a Generator have already been reconciled against the template.
type Generator interface {
	Generate(ctx context.Context, template []byte, instr *models.CloningInstructions) ([]byte, error)
}

// MediaType of generated documents
const MediaType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// FileName is the download name of a document generated at now
func FileName(now time.Time) string {
	return "presentation-generated-" + now.Format("2006-01-02") + ".pptx"
}
