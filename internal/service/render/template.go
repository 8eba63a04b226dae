package render

import (
	"regexp"

	"go.uber.org/zap"

	"campus-notify/internal/domain"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.]+)\s*\}\}`)

// Render substitutes {{dotted.path}} placeholders from the template-data
// tree. Resolution never fails: an unresolved placeholder renders as the
// empty string and logs a warning. No control flow is interpreted.
func Render(tmpl string, data domain.TemplateValue, logger *zap.Logger) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(match string) string {
		path := placeholderRe.FindStringSubmatch(match)[1]
		value, ok := domain.Lookup(data, path)
		if !ok {
			logger.Warn("unresolved template placeholder", zap.String("placeholder", path))
			return ""
		}
		return string(value)
	})
}
