package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrPreferencesRequired is returned when the submission has no preferences field.
var ErrPreferencesRequired = errors.New("preferences are required")

// SubmitPreferencesRequest is the body of POST /submit.
//
// Preferences is kept raw because two shapes are accepted: the canonical
// mapping {"<blockId>": value} and the deprecated list of
// {"bloque_horario_id", "valor_prioridad"} objects.
type SubmitPreferencesRequest struct {
	Preferences json.RawMessage `json:"preferences" swaggertype:"object"`
	MinDays     *bool           `json:"min_dias"`
}

// LegacyPreferenceEntry is one element of the deprecated list shape.
type LegacyPreferenceEntry struct {
	BlockID json.RawMessage `json:"bloque_horario_id"`
	Value   json.RawMessage `json:"valor_prioridad"`
}

// NormalizedPreferences is the canonical form handed to the reconciler.
type NormalizedPreferences struct {
	Values     map[int64]int
	MinMaxDays bool
	// Deprecated is set when the list shape was upgraded.
	Deprecated bool
}

// Normalize validates the payload and coerces every value onto 0..maxValue.
func (r SubmitPreferencesRequest) Normalize(maxValue int) (*NormalizedPreferences, error) {
	raw := bytes.TrimSpace(r.Preferences)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrPreferencesRequired
	}

	out := &NormalizedPreferences{Values: map[int64]int{}}
	if r.MinDays != nil {
		out.MinMaxDays = *r.MinDays
	}

	switch raw[0] {
	case '{':
		var mapping map[string]json.RawMessage
		if err := json.Unmarshal(raw, &mapping); err != nil {
			return nil, fmt.Errorf("preferences: %w", err)
		}
		for key, rawValue := range mapping {
			id, err := parseBlockID(key)
			if err != nil {
				return nil, err
			}
			if _, dup := out.Values[id]; dup {
				return nil, fmt.Errorf("preferences: block %d given more than once", id)
			}
			value, err := normalizeValue(rawValue, maxValue)
			if err != nil {
				return nil, fmt.Errorf("preferences[%s]: %w", key, err)
			}
			out.Values[id] = value
		}
	case '[':
		var entries []LegacyPreferenceEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("preferences: %w", err)
		}
		out.Deprecated = true
		for i, entry := range entries {
			id, err := parseBlockIDValue(entry.BlockID)
			if err != nil {
				return nil, fmt.Errorf("preferences[%d]: %w", i, err)
			}
			value, err := normalizeValue(entry.Value, maxValue)
			if err != nil {
				return nil, fmt.Errorf("preferences[%d]: %w", i, err)
			}
			// last entry for a block wins
			out.Values[id] = value
		}
	default:
		return nil, errors.New("preferences must be an object keyed by block id")
	}

	return out, nil
}

func parseBlockID(key string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("preferences: invalid block id %q", key)
	}
	return id, nil
}

func parseBlockIDValue(raw json.RawMessage) (int64, error) {
	var v interface{}
	if err := decodeNumber(raw, &v); err != nil {
		return 0, fmt.Errorf("invalid block id: %w", err)
	}
	switch t := v.(type) {
	case json.Number:
		return parseBlockID(t.String())
	case string:
		return parseBlockID(t)
	default:
		return 0, fmt.Errorf("invalid block id %s", string(raw))
	}
}

// normalizeValue maps falsy input to 0, keeps integers in range, clamps
// out-of-range integers to 0 and rejects anything non-integral.
func normalizeValue(raw json.RawMessage, maxValue int) (int, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return 0, nil
	}
	var v interface{}
	if err := decodeNumber(raw, &v); err != nil {
		return 0, err
	}

	switch t := v.(type) {
	case nil:
		return 0, nil
	case bool:
		if t {
			return 0, errors.New("true is not a priority value")
		}
		return 0, nil
	case json.Number:
		return clampInteger(t.String(), maxValue)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		return clampInteger(s, maxValue)
	default:
		return 0, fmt.Errorf("unsupported priority value %s", string(raw))
	}
}

func clampInteger(s string, maxValue int) (int, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return inRange(n, maxValue), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("priority value %q is not a number", s)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("priority value %q is not an integer", s)
	}
	if f < 0 || f > float64(maxValue) {
		return 0, nil
	}
	return int(f), nil
}

func inRange(n int64, maxValue int) int {
	if n < 0 || n > int64(maxValue) {
		return 0
	}
	return int(n)
}

func decodeNumber(raw json.RawMessage, dest *interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(dest)
}

// SubmitPreferencesResponse confirms a stored submission.
type SubmitPreferencesResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ScheduleBlockView is a block rendered for the form, times as HH:MM.
type ScheduleBlockView struct {
	ID         int64  `json:"id"`
	Day        string `json:"dia"`
	StartTime  string `json:"hora_inicio"`
	EndTime    string `json:"hora_fin"`
	Preference *int   `json:"preference,omitempty"`
}

// SubjectView is an assigned subject.
type SubjectView struct {
	Code      string  `json:"codigo"`
	ShortName string  `json:"nombre"`
	FullName  *string `json:"nombre_completo,omitempty"`
}

// TeachingAssignments is the deduplicated result of the eligibility lookup.
type TeachingAssignments struct {
	Subjects []SubjectView `json:"materias"`
	Shifts   []string      `json:"turnos"`
}

// PreferencesView is the payload of GET /preferences.
type PreferencesView struct {
	ProfessorID    string              `json:"ci"`
	ProfessorName  string              `json:"professor_name"`
	MinMaxDays     bool                `json:"min_max_dias"`
	Subjects       []SubjectView       `json:"materias_asignadas"`
	Shifts         []string            `json:"turnos_asignados"`
	ShiftBlockIDs  []int64             `json:"bloques_turno"`
	ScheduleBlocks []ScheduleBlockView `json:"bloques_horarios"`
	LastModified   *string             `json:"last_modified,omitempty"`
}

// AuthRedirectResponse is returned to JSON clients instead of a 302.
type AuthRedirectResponse struct {
	Success  bool   `json:"success"`
	Redirect string `json:"redirect"`
}

// PriorityEntry is one normalized (block, value) pair.
type PriorityEntry struct {
	BlockID int64 `validate:"gt=0"`
	Value   int   `validate:"gte=0,lte=3"`
}

// PriorityEntries wraps the pairs for struct validation.
type PriorityEntries struct {
	Items []PriorityEntry `validate:"dive"`
}

// Entries lists the normalized values as validated pairs.
func (n *NormalizedPreferences) Entries() PriorityEntries {
	entries := PriorityEntries{Items: make([]PriorityEntry, 0, len(n.Values))}
	for id, value := range n.Values {
		entries.Items = append(entries.Items, PriorityEntry{BlockID: id, Value: value})
	}
	return entries
}
