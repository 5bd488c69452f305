// Package gpp holds the Model, the aggregate root of a GPP string. A Model owns one
// section per registered profile it carries and caches the last encoded string until a
// field changes.
//
// A Model is not safe for concurrent use.
package gpp

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/prebid/gpp-codec/errortypes"
	"github.com/prebid/gpp-codec/logger"
	"github.com/prebid/gpp-codec/metrics"
	"github.com/prebid/gpp-codec/section"
)

const (
	sectionSeparator = "~"
	headerVersion    = 1

	createdField     = "Created"
	lastUpdatedField = "LastUpdated"
)

type Model struct {
	sections map[int]*section.Section
	// changed holds the IDs of sections written through a setter since the last Encode
	// or Decode.
	changed map[int]bool
	encoded string
	dirty   bool

	clock   clock.Clock
	metrics metrics.MetricsEngine
}

// Option configures a Model.
type Option func(*Model)

// WithClock makes Encode stamp Created and LastUpdated on every changed section which
// declares them. Created is only set while it still holds the zero time.
func WithClock(c clock.Clock) Option {
	return func(m *Model) {
		m.clock = c
	}
}

func WithMetrics(engine metrics.MetricsEngine) Option {
	return func(m *Model) {
		if engine != nil {
			m.metrics = engine
		}
	}
}

// NewModel returns an empty Model.
func NewModel(opts ...Option) *Model {
	m := &Model{
		sections: make(map[int]*section.Section),
		changed:  make(map[int]bool),
		dirty:    true,
		metrics:  &metrics.NilMetricsEngine{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Parse decodes input into a new Model.
func Parse(input string, opts ...Option) (*Model, error) {
	m := NewModel(opts...)
	if err := m.Decode(input); err != nil {
		return nil, err
	}
	return m, nil
}

func lookupName(name string) (*section.Def, error) {
	def, ok := section.ByName(name)
	if !ok {
		return nil, &errortypes.UnknownSection{Message: fmt.Sprintf("unknown section %q", name)}
	}
	return def, nil
}

func lookupID(id int) (*section.Def, error) {
	def, ok := section.ByID(id)
	if !ok {
		return nil, &errortypes.UnknownSection{Message: fmt.Sprintf("unknown section id %d", id)}
	}
	return def, nil
}

// SetFieldValue sets a field, creating the section if the Model does not carry it yet.
func (m *Model) SetFieldValue(sectionName, fieldName string, value any) error {
	def, err := lookupName(sectionName)
	if err != nil {
		return err
	}
	return m.setFieldValue(def, fieldName, value)
}

func (m *Model) SetFieldValueBySectionID(id int, fieldName string, value any) error {
	def, err := lookupID(id)
	if err != nil {
		return err
	}
	return m.setFieldValue(def, fieldName, value)
}

func (m *Model) setFieldValue(def *section.Def, fieldName string, value any) error {
	s, ok := m.sections[def.ID]
	if !ok {
		s = section.New(def)
		if !s.HasField(fieldName) {
			return &errortypes.UnknownField{
				Message: fmt.Sprintf("section %s has no field named %s", def.Name, fieldName),
			}
		}
	}
	if err := s.SetFieldValue(fieldName, value); err != nil {
		return err
	}
	m.sections[def.ID] = s
	m.changed[def.ID] = true
	m.dirty = true
	return nil
}

// GetFieldValue returns the field's value, or nil when the Model does not carry the
// section. The header fields are readable under the section name "header".
func (m *Model) GetFieldValue(sectionName, fieldName string) (any, error) {
	if sectionName == section.HeaderName {
		return m.headerFieldValue(fieldName)
	}
	def, err := lookupName(sectionName)
	if err != nil {
		return nil, err
	}
	return m.getFieldValue(def, fieldName)
}

func (m *Model) GetFieldValueBySectionID(id int, fieldName string) (any, error) {
	if id == section.HeaderID {
		return m.headerFieldValue(fieldName)
	}
	def, err := lookupID(id)
	if err != nil {
		return nil, err
	}
	return m.getFieldValue(def, fieldName)
}

func (m *Model) getFieldValue(def *section.Def, fieldName string) (any, error) {
	s, ok := m.sections[def.ID]
	if !ok {
		if !section.New(def).HasField(fieldName) {
			return nil, &errortypes.UnknownField{
				Message: fmt.Sprintf("section %s has no field named %s", def.Name, fieldName),
			}
		}
		return nil, nil
	}
	return s.GetFieldValue(fieldName)
}

func (m *Model) headerFieldValue(fieldName string) (any, error) {
	header, err := m.buildHeader()
	if err != nil {
		return nil, err
	}
	return header.GetFieldValue(fieldName)
}

// HasField reports whether the section type declares the field. It does not require the
// Model to carry the section.
func (m *Model) HasField(sectionName, fieldName string) bool {
	if sectionName == section.HeaderName {
		return section.New(section.Header).HasField(fieldName)
	}
	def, ok := section.ByName(sectionName)
	return ok && section.New(def).HasField(fieldName)
}

func (m *Model) HasSection(sectionName string) bool {
	def, ok := section.ByName(sectionName)
	if !ok {
		return false
	}
	_, ok = m.sections[def.ID]
	return ok
}

func (m *Model) HasSectionID(id int) bool {
	_, ok := m.sections[id]
	return ok
}

// DeleteSection removes the section. Deleting a section the Model does not carry is a
// no-op; an unregistered name is an UnknownSection error.
func (m *Model) DeleteSection(sectionName string) error {
	def, err := lookupName(sectionName)
	if err != nil {
		return err
	}
	m.deleteSection(def.ID)
	return nil
}

func (m *Model) DeleteSectionByID(id int) error {
	def, err := lookupID(id)
	if err != nil {
		return err
	}
	m.deleteSection(def.ID)
	return nil
}

func (m *Model) deleteSection(id int) {
	if _, ok := m.sections[id]; !ok {
		return
	}
	delete(m.sections, id)
	delete(m.changed, id)
	m.dirty = true
}

// Clear drops every section. Options given at construction are kept.
func (m *Model) Clear() {
	m.sections = make(map[int]*section.Section)
	m.changed = make(map[int]bool)
	m.encoded = ""
	m.dirty = true
}

// SectionIDs returns the IDs of the carried sections in ascending order.
func (m *Model) SectionIDs() []int {
	ids := make([]int, 0, len(m.sections))
	for id := range m.sections {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SectionNames returns the names of the carried sections ordered by ID.
func (m *Model) SectionNames() []string {
	ids := m.SectionIDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = m.sections[id].Name()
	}
	return names
}

// encodedIDs returns the IDs of the sections which carry a signal, ascending.
func (m *Model) encodedIDs() []int {
	var ids []int
	for _, id := range m.SectionIDs() {
		if !m.sections[id].IsEmpty() {
			ids = append(ids, id)
		}
	}
	return ids
}

func (m *Model) buildHeader() (*section.Section, error) {
	header := section.New(section.Header)
	ids := m.encodedIDs()
	if ids == nil {
		ids = []int{}
	}
	if err := header.SetFieldValue(section.HeaderSectionIdsField, ids); err != nil {
		return nil, err
	}
	return header, nil
}

// GetHeader returns the header fields the next Encode would write.
func (m *Model) GetHeader() (map[string]any, error) {
	header, err := m.buildHeader()
	if err != nil {
		return nil, err
	}
	return header.ToObject(), nil
}

// Encode returns the GPP string. Sections carrying no signal are left out. The string
// is cached until a field changes. On failure the Model is left unchanged.
func (m *Model) Encode() (string, error) {
	start := time.Now()
	encoded, err := m.encode()
	labels := metrics.Labels{Operation: metrics.OperationEncode, Status: metrics.StatusFromError(err)}
	m.metrics.RecordOperation(labels)
	m.metrics.RecordOperationTime(labels, time.Since(start))
	return encoded, err
}

func (m *Model) encode() (string, error) {
	if !m.dirty {
		return m.encoded, nil
	}

	restore := m.stampTimestamps()

	header, err := m.buildHeader()
	if err != nil {
		restore()
		return "", err
	}
	headerToken, err := header.Encode()
	if err != nil {
		restore()
		return "", errors.Wrap(err, "header")
	}

	ids := m.encodedIDs()
	tokens := make([]string, 0, len(ids)+1)
	tokens = append(tokens, headerToken)
	for _, id := range ids {
		token, err := m.sections[id].Encode()
		if err != nil {
			restore()
			return "", err
		}
		tokens = append(tokens, token)
	}

	for _, id := range ids {
		m.metrics.RecordSection(m.sections[id].Name(), metrics.OperationEncode)
	}
	m.encoded = strings.Join(tokens, sectionSeparator)
	m.dirty = false
	m.changed = make(map[int]bool)
	return m.encoded, nil
}

// stampTimestamps sets Created and LastUpdated on changed sections and returns a func
// which puts the previous values back.
func (m *Model) stampTimestamps() func() {
	if m.clock == nil {
		return func() {}
	}
	now := m.clock.Now().UTC()

	type previous struct {
		s     *section.Section
		field string
		value any
	}
	var undo []previous
	for id := range m.changed {
		s, ok := m.sections[id]
		if !ok || s.IsEmpty() || !s.HasField(lastUpdatedField) {
			continue
		}
		created, _ := s.GetFieldValue(createdField)
		if t, ok := created.(time.Time); ok && t.IsZero() {
			undo = append(undo, previous{s: s, field: createdField, value: created})
			if err := s.SetFieldValue(createdField, now); err != nil {
				logger.Warnf("could not stamp %s.%s: %v", s.Name(), createdField, err)
			}
		}
		updated, _ := s.GetFieldValue(lastUpdatedField)
		undo = append(undo, previous{s: s, field: lastUpdatedField, value: updated})
		if err := s.SetFieldValue(lastUpdatedField, now); err != nil {
			logger.Warnf("could not stamp %s.%s: %v", s.Name(), lastUpdatedField, err)
		}
	}

	return func() {
		for i := len(undo) - 1; i >= 0; i-- {
			_ = undo[i].s.SetFieldValue(undo[i].field, undo[i].value)
		}
	}
}

// Decode replaces the Model's content with the sections of input. Either every section
// decodes or the Model is left unchanged.
func (m *Model) Decode(input string) error {
	start := time.Now()
	err := m.decode(input)
	labels := metrics.Labels{Operation: metrics.OperationDecode, Status: metrics.StatusFromError(err)}
	m.metrics.RecordOperation(labels)
	m.metrics.RecordOperationTime(labels, time.Since(start))
	if err != nil {
		logger.Debugf("failed to decode gpp string %q: %v", input, err)
	}
	return err
}

func (m *Model) decode(input string) error {
	if input == "" {
		return &errortypes.Decoding{Message: "empty gpp string"}
	}
	tokens := strings.Split(input, sectionSeparator)

	header := section.New(section.Header)
	if err := header.Decode(tokens[0]); err != nil {
		return errors.Wrap(err, "header")
	}
	if err := checkHeaderValue(header, section.HeaderIDField, section.HeaderID); err != nil {
		return err
	}
	if err := checkHeaderValue(header, section.HeaderVersionField, headerVersion); err != nil {
		return err
	}

	value, _ := header.GetFieldValue(section.HeaderSectionIdsField)
	ids := value.([]int)
	if len(ids) != len(tokens)-1 {
		return &errortypes.Decoding{
			Message: fmt.Sprintf("header lists %d sections but the string carries %d", len(ids), len(tokens)-1),
		}
	}

	sections := make(map[int]*section.Section, len(ids))
	for i, id := range ids {
		def, ok := section.ByID(id)
		if !ok {
			return &errortypes.Decoding{Message: fmt.Sprintf("unsupported section id %d", id)}
		}
		s := section.New(def)
		if err := s.Decode(tokens[i+1]); err != nil {
			return err
		}
		sections[id] = s
	}

	for _, id := range ids {
		m.metrics.RecordSection(sections[id].Name(), metrics.OperationDecode)
	}
	m.sections = sections
	m.changed = make(map[int]bool)
	m.encoded = ""
	m.dirty = true
	return nil
}

func checkHeaderValue(header *section.Section, fieldName string, expected int) error {
	value, _ := header.GetFieldValue(fieldName)
	if value != expected {
		return &errortypes.Decoding{
			Message: fmt.Sprintf("header %s must be %d. Got %v", fieldName, expected, value),
		}
	}
	return nil
}

// EncodeSection returns the token of one section, or "" when the Model does not carry it.
func (m *Model) EncodeSection(sectionName string) (string, error) {
	def, err := lookupName(sectionName)
	if err != nil {
		return "", err
	}
	s, ok := m.sections[def.ID]
	if !ok {
		return "", nil
	}
	return s.Encode()
}

// DecodeSection replaces one section with the content of token. On failure the Model is
// left unchanged.
func (m *Model) DecodeSection(sectionName, token string) error {
	def, err := lookupName(sectionName)
	if err != nil {
		return err
	}
	s := section.New(def)
	if err := s.Decode(token); err != nil {
		return err
	}
	m.sections[def.ID] = s
	delete(m.changed, def.ID)
	m.dirty = true
	return nil
}

// ToObject returns the field values of every carried section keyed by section name and
// then by field name. The returned maps are copies.
func (m *Model) ToObject() map[string]map[string]any {
	out := make(map[string]map[string]any, len(m.sections))
	for _, s := range m.sections {
		out[s.Name()] = s.ToObject()
	}
	return out
}
