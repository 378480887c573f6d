// Package validation validates configuration structs with
// go-playground/validator struct tags. Failures come back as
// INVALID_ARGUMENT AppErrors naming the offending config keys.
//
//	type Config struct {
//	    Driver string `mapstructure:"driver" validate:"required,oneof=sqlite mysql"`
//	    Slow   string `mapstructure:"slow" validate:"duration"`
//	}
//	err := validation.Validate(cfg)
package validation
