package assets

import (
	"fmt"
	"strings"
)

// TemplateExt is the extension every template name carries.
const TemplateExt = ".pdf"

// ValidateTemplateName checks that name is a bare "<stem>.pdf" file name.
// Returns ErrInvalidAssetName if the name is empty, contains path separators
// or "..", or lacks the .pdf extension.
func ValidateTemplateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	stem, ok := strings.CutSuffix(name, TemplateExt)
	if !ok || stem == "" {
		return fmt.Errorf("%w: %q must be a %s file name", ErrInvalidAssetName, name, TemplateExt)
	}
	return nil
}
