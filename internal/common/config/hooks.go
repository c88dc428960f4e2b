package config

import (
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Unlimited is the spelling of an unset optional limit.
const Unlimited = "unlimited"

var CustomHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		OptionalLimitHookFunc(),
	)),
}

// OptionalLimitHookFunc decodes optional integer limits (*int). "unlimited", the empty string and non-positive
// numbers such as -1 all mean that the limit is unset. It returns nil data for unset limits and must therefore be
// the last hook of a composition.
func OptionalLimitHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != reflect.TypeOf((*int)(nil)) {
			return data, nil
		}
		v := reflect.ValueOf(data)
		switch v.Kind() {
		case reflect.String:
			s := strings.TrimSpace(v.String())
			if s == "" || strings.EqualFold(s, Unlimited) {
				return nil, nil
			}
			if strings.HasPrefix(s, "-") || s == "0" {
				return nil, nil
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if v.Int() <= 0 {
				return nil, nil
			}
		case reflect.Float32, reflect.Float64:
			if v.Float() <= 0 {
				return nil, nil
			}
		}
		return data, nil
	}
}
