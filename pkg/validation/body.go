package validation

import (
	"context"
	"log/slog"

	"github.com/getmockd/oasmock/internal/mediatype"
	"github.com/getmockd/oasmock/pkg/contract"
	"github.com/getmockd/oasmock/pkg/logging"
)

// BodyValidator validates a request body against the declared contents.
type BodyValidator struct {
	media *MediaRegistry
	log   *slog.Logger
}

// NewBodyValidator creates a body validator using the default media
// validators.
func NewBodyValidator(schemas SchemaValidator) *BodyValidator {
	return NewMediaBodyValidator(NewDefaultMediaRegistry(schemas))
}

// NewMediaBodyValidator creates a body validator dispatching on media.
func NewMediaBodyValidator(media *MediaRegistry) *BodyValidator {
	return &BodyValidator{media: media, log: logging.Nop()}
}

// SetLogger sets the logger.
func (v *BodyValidator) SetLogger(log *slog.Logger) {
	if log == nil {
		log = logging.Nop()
	}
	v.log = log
}

// Validate checks body against the content definition whose media type
// equals mediaType (parameters and case are ignored). An undeclared media
// type stops validation with a single diagnostic. A nil spec means the
// operation declares no body and nothing is checked. Bodies whose media type
// has no registered validator skip the schema check.
func (v *BodyValidator) Validate(ctx context.Context, body any, spec *contract.RequestBody, mediaType string) (Diagnostics, error) {
	if spec == nil {
		return nil, nil
	}
	if body == nil {
		if spec.Required {
			return Diagnostics{NewRequiredBodyDiagnostic()}, nil
		}
		return nil, nil
	}

	content := findContent(spec.Contents, mediaType)
	if content == nil {
		declared := make([]string, len(spec.Contents))
		for i := range spec.Contents {
			declared[i] = spec.Contents[i].MediaType
		}
		return Diagnostics{NewUnsupportedMediaTypeDiagnostic(mediatype.Normalize(mediaType), declared)}, nil
	}
	if content.Schema == nil {
		return nil, nil
	}

	mv, ok := v.media.Get(content.MediaType)
	if !ok {
		v.log.Debug("no validator for media type, skipping body schema validation",
			"mediaType", content.MediaType)
		return nil, nil
	}
	found, err := mv.Validate(ctx, body, content.Schema)
	if err != nil {
		return nil, err
	}
	for i := range found {
		found[i].Location = LocationBody
	}
	return found, nil
}

func findContent(contents []contract.Content, mediaType string) *contract.Content {
	want := mediatype.Normalize(mediaType)
	if want == "" {
		return nil
	}
	for i := range contents {
		if mediatype.Normalize(contents[i].MediaType) == want {
			return &contents[i]
		}
	}
	return nil
}
