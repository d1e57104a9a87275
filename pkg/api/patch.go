package api

import (
	"fmt"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/bvquist1400/mission-control/pkg/models"
)

// bindPatchFields decodes a PATCH body into a raw key/value map and
// converts each present, whitelisted key to the type the store layer
// expects, leaving every other caller-supplied key out entirely (the
// store's own whitelist is the second line of defense).
func bindPatchFields(c *echo.Context, convert map[string]func(any) (any, error)) (map[string]any, error) {
	var raw map[string]any
	if err := c.Bind(&raw); err != nil {
		return nil, echo.NewHTTPError(400, "invalid request body")
	}

	fields := make(map[string]any, len(raw))
	for key, value := range raw {
		fn, ok := convert[key]
		if !ok {
			continue
		}
		converted, err := fn(value)
		if err != nil {
			return nil, echo.NewHTTPError(400, fmt.Sprintf("%s: %s", key, err.Error()))
		}
		fields[key] = converted
	}
	return fields, nil
}

func asString(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("must be a string")
	}
	return s, nil
}

func asNullableString(v any) (any, error) {
	if v == nil {
		return (*string)(nil), nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("must be a string or null")
	}
	return &s, nil
}

func asBool(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("must be a boolean")
	}
	return b, nil
}

func asInt(v any) (any, error) {
	f, ok := v.(float64)
	if !ok {
		return nil, fmt.Errorf("must be a number")
	}
	return int(f), nil
}

func asNullableTime(v any) (any, error) {
	if v == nil {
		return (*time.Time)(nil), nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("must be an ISO-8601 string or null")
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp")
	}
	return &t, nil
}

var taskPatchConverters = map[string]func(any) (any, error){
	"title":             asString,
	"description":       asNullableString,
	"implementation_id": asNullableString,
	"status":            func(v any) (any, error) { s, err := asString(v); if err != nil { return nil, err }; return models.TaskStatus(s.(string)), nil },
	"task_type":         func(v any) (any, error) { s, err := asString(v); if err != nil { return nil, err }; return models.TaskType(s.(string)), nil },
	"estimated_minutes": asInt,
	"estimate_source":   func(v any) (any, error) { s, err := asString(v); if err != nil { return nil, err }; return models.EstimateSource(s.(string)), nil },
	"due_at":            asNullableTime,
	"needs_review":      asBool,
	"blocker":           asBool,
	"waiting_on":        asNullableString,
	"follow_up_at":      asNullableTime,
	"pinned_excerpt":    asNullableString,
}

var applicationPatchConverters = map[string]func(any) (any, error){
	"name":           asString,
	"phase":          func(v any) (any, error) { s, err := asString(v); if err != nil { return nil, err }; return models.ApplicationPhase(s.(string)), nil },
	"rag":            func(v any) (any, error) { s, err := asString(v); if err != nil { return nil, err }; return models.RAGStatus(s.(string)), nil },
	"status_summary": asNullableString,
	"next_milestone": asNullableString,
	"target_date":    asNullableTime,
}

var focusDirectivePatchConverters = map[string]func(any) (any, error){
	"text":        asString,
	"scope_type":  func(v any) (any, error) { s, err := asString(v); if err != nil { return nil, err }; return models.DirectiveScopeType(s.(string)), nil },
	"scope_id":    asNullableString,
	"scope_value": asNullableString,
	"strength":    func(v any) (any, error) { s, err := asString(v); if err != nil { return nil, err }; return models.DirectiveStrength(s.(string)), nil },
	"starts_at":   asNullableTime,
	"ends_at":     asNullableTime,
	"is_active":   asBool,
}
