package gameserver

import (
	"fmt"
	"math"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"
)

// maxExactSeed is the largest seed a JSON number carries without rounding.
const maxExactSeed = 1 << 53

// BattleRequest is the decoded SimulateBattle request.
type BattleRequest struct {
	Player string
	Wild   string
	// Seed is meaningful only when HasSeed is true.
	Seed    uint64
	HasSeed bool
	// Optional overrides of the server defaults; nil keeps the default.
	CaptureThreshold *float64
	CaptureBonus     *float64
	ToolBonus        *float64
}

// ParseBattleRequest decodes req.
//
// Postcondition: Returns an error naming the first invalid field. A nil req
// is reported as a missing player.
func ParseBattleRequest(req *structpb.Struct) (BattleRequest, error) {
	fields := req.GetFields()
	var out BattleRequest
	var err error
	if out.Player, err = requiredString(fields, "player"); err != nil {
		return BattleRequest{}, err
	}
	if out.Wild, err = requiredString(fields, "wild"); err != nil {
		return BattleRequest{}, err
	}
	if v, ok := fields["seed"]; ok {
		if out.Seed, err = parseSeed(v); err != nil {
			return BattleRequest{}, err
		}
		out.HasSeed = true
	}
	for _, opt := range []struct {
		name string
		dst  **float64
	}{
		{"capture_threshold", &out.CaptureThreshold},
		{"capture_bonus", &out.CaptureBonus},
		{"tool_bonus", &out.ToolBonus},
	} {
		v, ok := fields[opt.name]
		if !ok {
			continue
		}
		n, isNum := v.GetKind().(*structpb.Value_NumberValue)
		if !isNum || math.IsNaN(n.NumberValue) || n.NumberValue < 0 || n.NumberValue > 1 {
			return BattleRequest{}, fmt.Errorf("%s must be a number in [0, 1]", opt.name)
		}
		f := n.NumberValue
		*opt.dst = &f
	}
	return out, nil
}

func requiredString(fields map[string]*structpb.Value, name string) (string, error) {
	v, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("%s is required", name)
	}
	s, isStr := v.GetKind().(*structpb.Value_StringValue)
	if !isStr || s.StringValue == "" {
		return "", fmt.Errorf("%s must be a non-empty string", name)
	}
	return s.StringValue, nil
}

// parseSeed accepts a non-negative integral number below 2^53, or a decimal
// string for the full uint64 range.
func parseSeed(v *structpb.Value) (uint64, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n < 0 || n >= maxExactSeed || n != math.Trunc(n) {
			return 0, fmt.Errorf("seed must be an integer in [0, 2^53)")
		}
		return uint64(n), nil
	case *structpb.Value_StringValue:
		seed, err := strconv.ParseUint(k.StringValue, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing seed: %w", err)
		}
		return seed, nil
	default:
		return 0, fmt.Errorf("seed must be a number or a decimal string")
	}
}
