package starport

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/go-drift/starport/pkg/animation"
)

// Options configures how a port's instance travels between proxies. The
// zero value means no animation: the instance jumps to each new rect.
type Options struct {
	// Duration is the flight duration. Zero or less snaps; since Merge skips
	// zero, a negative value is how a proxy snaps under animated defaults.
	Duration time.Duration `yaml:"duration" toml:"duration"`
	// Easing is a CSS-style timing function name: linear, ease, ease-in,
	// ease-out, ease-in-out or cubic-bezier(x1, y1, x2, y2).
	Easing string `yaml:"easing" toml:"easing" validate:"omitempty,easing"`
	// ZIndex orders instances in the carrier. Higher paints on top.
	ZIndex int `yaml:"zIndex" toml:"zIndex"`
}

// DefaultEasing is the easing used by DefaultOptions.
const DefaultEasing = "cubic-bezier(0.45, 0, 0.55, 1)"

// DefaultOptions returns the stock flight options: 800ms on a symmetric
// ease-in-out bezier.
func DefaultOptions() Options {
	return Options{Duration: 800 * time.Millisecond, Easing: DefaultEasing}
}

// Merge returns o with every non-zero field of over applied on top.
func (o Options) Merge(over Options) Options {
	if over.Duration != 0 {
		o.Duration = over.Duration
	}
	if over.Easing != "" {
		o.Easing = over.Easing
	}
	if over.ZIndex != 0 {
		o.ZIndex = over.ZIndex
	}
	return o
}

// Curve returns the animation curve for Easing. Empty or unparsable easing
// yields nil, which animates linearly.
func (o Options) Curve() animation.Curve {
	curve, err := ParseEasing(o.Easing)
	if err != nil {
		return nil
	}
	return curve
}

// Validate checks the options with the package validator.
func (o Options) Validate() error {
	return optionsValidator().Struct(o)
}

var namedEasings = map[string]animation.Curve{
	"linear":      animation.LinearCurve,
	"ease":        animation.Ease,
	"ease-in":     animation.EaseIn,
	"ease-out":    animation.EaseOut,
	"ease-in-out": animation.EaseInOut,
}

// ParseEasing maps a timing function name to a curve. The empty string
// returns a nil curve and no error.
func ParseEasing(easing string) (animation.Curve, error) {
	easing = strings.TrimSpace(easing)
	if easing == "" {
		return nil, nil
	}
	if curve, ok := namedEasings[easing]; ok {
		return curve, nil
	}
	args, ok := strings.CutPrefix(easing, "cubic-bezier(")
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", easing)
	}
	args, ok = strings.CutSuffix(args, ")")
	if !ok {
		return nil, fmt.Errorf("easing %q: missing closing parenthesis", easing)
	}
	parts := strings.Split(args, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("easing %q: cubic-bezier takes 4 arguments, got %d", easing, len(parts))
	}
	var p [4]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("easing %q: %w", easing, err)
		}
		p[i] = v
	}
	// x coordinates must stay in [0, 1] for the curve to be a function of time.
	if p[0] < 0 || p[0] > 1 || p[2] < 0 || p[2] > 1 {
		return nil, fmt.Errorf("easing %q: x control points must be within [0, 1]", easing)
	}
	return animation.CubicBezier(p[0], p[1], p[2], p[3]), nil
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func optionsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = RegisterValidations(validate)
	})
	return validate
}

// RegisterValidations adds the starport custom tags (currently "easing") to v,
// so configuration structs embedding Options validate the same way.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("easing", func(fl validator.FieldLevel) bool {
		_, err := ParseEasing(fl.Field().String())
		return err == nil
	})
}
