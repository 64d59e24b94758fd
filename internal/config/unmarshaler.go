package config

import (
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/smykla-skalski/timemap/pkg/config"
)

// CustomDecoderConfig returns a mapstructure decoder config with custom type hooks
// for handling Duration, SortKey and Format types.
func CustomDecoderConfig() *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToDurationHookFunc(),
			stringToSortKeyHookFunc(),
			stringToFormatHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           nil, // Set by caller
	}
}

// stringToDurationHookFunc returns a decode hook for converting strings to config.Duration.
//
//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func stringToDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(
		_ reflect.Type,
		t reflect.Type,
		data any,
	) (any, error) {
		if t != reflect.TypeFor[config.Duration]() {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			var d config.Duration
			if err := d.UnmarshalText([]byte(v)); err != nil {
				return nil, err
			}

			return d, nil

		case int64:
			return config.Duration(time.Duration(v)), nil

		case float64:
			return config.Duration(time.Duration(v)), nil

		default:
			return data, nil
		}
	}
}

// stringToSortKeyHookFunc returns a decode hook for converting strings to config.SortKey.
//
//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func stringToSortKeyHookFunc() mapstructure.DecodeHookFunc {
	return func(
		_ reflect.Type,
		t reflect.Type,
		data any,
	) (any, error) {
		if t != reflect.TypeFor[config.SortKey]() {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return config.ParseSortKey(v)

		case int:
			return config.SortKey(v), nil

		case int64:
			return config.SortKey(v), nil

		default:
			return data, nil
		}
	}
}

// stringToFormatHookFunc returns a decode hook for converting strings to config.Format.
//
//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func stringToFormatHookFunc() mapstructure.DecodeHookFunc {
	return func(
		_ reflect.Type,
		t reflect.Type,
		data any,
	) (any, error) {
		if t != reflect.TypeFor[config.Format]() {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return config.ParseFormat(v)

		case int:
			return config.Format(v), nil

		case int64:
			return config.Format(v), nil

		default:
			return data, nil
		}
	}
}
