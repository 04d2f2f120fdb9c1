package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/zerolog"

	"github.com/slidearchitect/internal/apperr"
	"github.com/slidearchitect/internal/llm"
	"github.com/slidearchitect/pkg/models"
)

var (
	compiledPlan    = Compile(PlanSchema)
	compiledCloning = Compile(CloningSchema)
)

// Validator turns raw model output into typed, schema-checked values.
// It holds no per-call state and is safe for concurrent use.
type Validator struct {
	repair bool
	log    zerolog.Logger
}

// Option configures a Validator
type Option func(*Validator)

// WithRepair enables jsonrepair-backed recovery of malformed JSON before parsing
func WithRepair(enabled bool) Option {
	return func(v *Validator) { v.repair = enabled }
}

// WithLogger sets the logger used to report repairs
func WithLogger(log zerolog.Logger) Option {
	return func(v *Validator) { v.log = log }
}

// NewValidator creates a validator. Without options it is strict: malformed
// JSON is always an upstream-invalid-response error.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var strict = NewValidator()

// ValidatePlan validates raw plan-mode output with a strict validator
func ValidatePlan(raw string) (*models.PresentationPlan, error) {
	return strict.Plan(raw)
}

// ValidateCloning validates raw cloning-mode output with a strict validator
func ValidateCloning(raw string) (*models.CloningInstructions, error) {
	return strict.Cloning(raw)
}

// Plan validates raw plan-mode output
func (v *Validator) Plan(raw string) (*models.PresentationPlan, error) {
	var plan models.PresentationPlan
	if err := v.validate(raw, compiledPlan, "presentation plan", &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Cloning validates raw cloning-mode output
func (v *Validator) Cloning(raw string) (*models.CloningInstructions, error) {
	var instr models.CloningInstructions
	if err := v.validate(raw, compiledCloning, "cloning instructions", &instr); err != nil {
		return nil, err
	}
	return &instr, nil
}

func (v *Validator) validate(raw string, s *openapi3.Schema, what string, target interface{}) error {
	value, err := v.parse(Unwrap(raw))
	if err != nil {
		return apperr.Wrap(apperr.KindUpstreamInvalid, err, "model output is not valid JSON")
	}

	if err := s.VisitJSON(value); err != nil {
		return violation(what, err)
	}

	// Decode from the generic value so integral floats such as 1.0 land in int fields.
	normalized, err := json.Marshal(value)
	if err != nil {
		return apperr.Wrap(apperr.KindUpstreamInvalid, err, "model output could not be re-encoded")
	}
	if err := json.Unmarshal(normalized, target); err != nil {
		return apperr.Wrap(apperr.KindUpstreamSchema, err, "%s could not be decoded", what)
	}
	return nil
}

func (v *Validator) parse(text string) (interface{}, error) {
	var value interface{}
	err := json.Unmarshal([]byte(text), &value)
	if err == nil || !v.repair {
		return value, err
	}

	repaired, stats, repairErr := llm.RepairJSON(text)
	v.log.Debug().
		Bool("repaired", repairErr == nil).
		Strs("strategies", stats.Strategies).
		Int("original_bytes", stats.OriginalBytes).
		Int("repaired_bytes", stats.RepairedBytes).
		Msg("Attempted JSON repair of model output")
	if repairErr != nil {
		return nil, err
	}

	value = nil
	if err := json.Unmarshal([]byte(repaired), &value); err != nil {
		return nil, err
	}
	return value, nil
}

func violation(what string, err error) *apperr.Error {
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		return &apperr.Error{
			Kind:    apperr.KindUpstreamSchema,
			Message: fmt.Sprintf("%s does not match the schema at %s: %s", what, pointer(se.JSONPointer()), se.Reason),
			Details: se.Reason,
			Cause:   err,
		}
	}
	return apperr.Wrap(apperr.KindUpstreamSchema, err, "%s does not match the schema", what)
}

func pointer(parts []string) string {
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}
