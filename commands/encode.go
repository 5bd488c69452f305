package commands

import (
	"fmt"
	"strings"

	"github.com/prebid/gpp-codec/errortypes"
	"github.com/prebid/gpp-codec/gpp"
	"github.com/prebid/gpp-codec/logger"
	"github.com/prebid/gpp-codec/section"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

const (
	cmpIDField      = "CmpId"
	cmpVersionField = "CmpVersion"
)

var sectionsSchema = newSectionsSchema()

// newSectionsSchema builds a JSON schema from the section registry: an object keyed by
// section name whose members only name fields the section declares.
func newSectionsSchema() *gojsonschema.Schema {
	properties := make(map[string]any)
	for _, def := range section.All() {
		fields := make(map[string]any)
		for _, name := range def.FieldNames() {
			fields[name] = map[string]any{}
		}
		properties[def.Name] = map[string]any{
			"type":                 []string{"object", "null"},
			"properties":           fields,
			"additionalProperties": false,
		}
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}))
	if err != nil {
		panic(fmt.Sprintf("section schema does not compile: %v", err))
	}
	return schema
}

// Encode builds a GPP string from a JSON document. The document is either the output of
// Decode or a bare {"<section>":{"<field>":value}} object. Fields holding their default
// value are skipped so optional segments are only written when they carry a signal.
func Encode(deps Deps, doc []byte) (string, []error) {
	sections, errs := parseSections(doc)
	if len(errs) > 0 {
		return "", errs
	}

	m := gpp.NewModel(deps.modelOptions()...)
	errs = applySections(deps, m, gjson.Result{}, sections)
	if errortypes.ContainsFatalError(errs) {
		return "", errs
	}
	encoded, err := m.Encode()
	if err != nil {
		return "", append(errs, err)
	}
	return encoded, errs
}

// parseSections validates doc and returns the object holding the sections.
func parseSections(doc []byte) (gjson.Result, []error) {
	if !gjson.ValidBytes(doc) {
		return gjson.Result{}, []error{&errortypes.BadInput{Message: "input is not valid JSON"}}
	}
	sections := gjson.ParseBytes(doc)
	if wrapped := sections.Get(sectionsKey); wrapped.Exists() {
		sections = wrapped
	}

	result, err := sectionsSchema.Validate(gojsonschema.NewStringLoader(sections.Raw))
	if err != nil {
		return gjson.Result{}, []error{&errortypes.BadInput{Message: err.Error()}}
	}
	if !result.Valid() {
		errs := make([]error, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			errs = append(errs, &errortypes.BadInput{Message: desc.String()})
		}
		return gjson.Result{}, errs
	}
	return sections, nil
}

// applySections writes into m every section field of next whose JSON differs from previous,
// or from the field default when previous does not carry the section. Sections carried by
// previous but missing from next are deleted.
func applySections(deps Deps, m *gpp.Model, previous, next gjson.Result) []error {
	var errs []error

	previous.ForEach(func(name, _ gjson.Result) bool {
		if next.Get(name.String()).Type == gjson.JSON {
			return true
		}
		if err := m.DeleteSection(name.String()); err != nil {
			errs = append(errs, err)
		}
		return true
	})

	next.ForEach(func(name, fields gjson.Result) bool {
		sectionName := name.String()
		if fields.Type != gjson.JSON || previous.Get(sectionName).Raw == fields.Raw {
			return true
		}
		if !deps.Config.Sections.IsEnabled(sectionName) {
			errs = append(errs, &errortypes.Warning{
				Message:     fmt.Sprintf("section %s is not enabled and was skipped", sectionName),
				WarningCode: errortypes.DisabledSectionWarningCode,
			})
			return true
		}
		def, _ := section.ByName(sectionName)
		errs = append(errs, applyFields(deps, m, def, previous.Get(sectionName), fields)...)
		return true
	})
	return errs
}

func applyFields(deps Deps, m *gpp.Model, def *section.Def, previous, next gjson.Result) []error {
	var errs []error
	defaults := section.New(def).ToObject()

	for _, fieldName := range def.FieldNames() {
		value := next.Get(fieldName)
		var base string
		if previous.Exists() {
			base = previous.Get(fieldName).Raw
		} else {
			base = rawJSON(defaults[fieldName])
		}

		if !value.Exists() {
			if previous.Exists() && base != rawJSON(defaults[fieldName]) {
				value = gjson.Parse(rawJSON(defaults[fieldName]))
			} else {
				continue
			}
		} else if value.Raw == base {
			continue
		}

		if err := m.SetFieldValue(def.Name, fieldName, value.Value()); err != nil {
			errs = append(errs, err)
		}
	}

	if !previous.Exists() {
		errs = append(errs, applyCmpDefaults(deps, m, def, next)...)
	}
	return errs
}

// applyCmpDefaults fills CmpId and CmpVersion from the configuration when a new TCF
// section leaves them out.
func applyCmpDefaults(deps Deps, m *gpp.Model, def *section.Def, fields gjson.Result) []error {
	var errs []error
	if !strings.HasPrefix(def.Name, "tcf") {
		return nil
	}
	defaults := map[string]int{
		cmpIDField:      deps.Config.TCF.CmpID,
		cmpVersionField: deps.Config.TCF.CmpVersion,
	}
	for name, value := range defaults {
		if value == 0 || fields.Get(name).Exists() {
			continue
		}
		logger.Debugf("using configured %s %d for section %s", name, value, def.Name)
		if err := m.SetFieldValue(def.Name, name, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
