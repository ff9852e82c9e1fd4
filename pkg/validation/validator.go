package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxLabelLength    = 100
	MaxTemplateLength = 50
	MaxTrays          = 16
	MaxPortsPerTray   = 64

	// Regular expressions
	namePattern  = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
	cablePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

func init() {
	validate = validator.New()
}

// ShelfRequest represents a request to create a shelf
type ShelfRequest struct {
	Label        string `json:"label" validate:"required,max=100"`
	Hostname     string `json:"hostname" validate:"omitempty,hostname_rfc1123"`
	Trays        int    `json:"trays" validate:"min=0,max=16"`
	PortsPerTray int    `json:"portsPerTray" validate:"min=0,max=64"`
}

// ConnectionRequest represents a request to cable two ports
type ConnectionRequest struct {
	SourcePortID uint64 `json:"sourcePortId" validate:"required,min=1"`
	TargetPortID uint64 `json:"targetPortId" validate:"required,min=1"`
	CableType    string `json:"cableType" validate:"required,max=50"`
	CableLength  string `json:"cableLength" validate:"omitempty,max=20"`
	Color        string `json:"color" validate:"omitempty,max=30"`
}

// TemplateRequest represents a request to register a template
type TemplateRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Children int    `json:"children" validate:"min=1"`
}

// ValidateShelfRequest validates a shelf creation request
func ValidateShelfRequest(req *ShelfRequest) error {
	if req == nil {
		return errors.New("shelf request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	if !namePattern.MatchString(req.Label) {
		return fmt.Errorf("Label: %q contains invalid characters (only alphanumeric, underscore, dot and dash allowed)", req.Label)
	}
	return nil
}

// ValidateConnectionRequest validates a connection creation request
func ValidateConnectionRequest(req *ConnectionRequest) error {
	if req == nil {
		return errors.New("connection request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	if req.SourcePortID == req.TargetPortID {
		return errors.New("TargetPortID: must differ from SourcePortID")
	}
	if !cablePattern.MatchString(req.CableType) {
		return fmt.Errorf("CableType: %q contains invalid characters (only alphanumeric, underscore and dash allowed)", req.CableType)
	}
	return nil
}

// ValidateTemplateName validates a template name
func ValidateTemplateName(name string) error {
	if name == "" {
		return errors.New("template name cannot be empty")
	}
	if len(name) > MaxTemplateLength {
		return fmt.Errorf("template name %q exceeds maximum length of %d characters", name, MaxTemplateLength)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("template name %q is invalid (only alphanumeric, underscore, dot and dash allowed)", name)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "hostname_rfc1123":
			return fmt.Errorf("%s: must be a valid hostname", field)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
