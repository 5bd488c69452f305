package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/prebid/gpp-codec/cache"
	"github.com/prebid/gpp-codec/config"
	"github.com/prebid/gpp-codec/errortypes"
	"github.com/prebid/gpp-codec/gpp"
	"github.com/prebid/gpp-codec/metrics"
	"github.com/prebid/gpp-codec/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const (
	iabExample = "DBACNYA~CPXxRfAPXxRfAAfKABENB-CgAAAAAAAAAAYgAAAAAAAA~1YNN"
	gpcExample = "DBABLA~BAAAAAAAAAAA.YA"
)

func newDeps(enabled ...string) Deps {
	return Deps{
		Config: &config.Configuration{
			Sections: config.Sections{Enabled: enabled},
			Batch:    config.Batch{Workers: 2},
		},
	}
}

func TestDecode(t *testing.T) {
	doc, err := Decode(newDeps(), iabExample)
	require.NoError(t, err)

	assert.Equal(t, int64(3), gjson.GetBytes(doc, "header.ID").Int())
	assert.Equal(t, "[2,6]", gjson.GetBytes(doc, "header.SectionIds").Raw)
	assert.Equal(t, int64(31), gjson.GetBytes(doc, "sections.tcfeuv2.CmpId").Int())
	assert.Equal(t, "DE", gjson.GetBytes(doc, "sections.tcfeuv2.PublisherCountryCode").String())
	assert.Equal(t, "2022-04-20T22:00:00Z", gjson.GetBytes(doc, "sections.tcfeuv2.Created").String())
	assert.Equal(t, "Y", gjson.GetBytes(doc, "sections.uspv1.Notice").String())

	var names []string
	gjson.GetBytes(doc, "sections").ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	assert.Equal(t, []string{section.TcfEuV2Name, section.UspV1Name}, names, "sections are rendered in ID order")
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		description  string
		input        string
		expectedCode int
	}{
		{description: "blank", input: "  ", expectedCode: errortypes.BadInputErrorCode},
		{description: "section missing from header", input: "DBABLA", expectedCode: errortypes.DecodingErrorCode},
		{description: "unsupported header version", input: "DCAA", expectedCode: errortypes.DecodingErrorCode},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			_, err := Decode(newDeps(), test.input)
			require.Error(t, err)
			assert.Equal(t, test.expectedCode, errortypes.ReadCode(err))
		})
	}
}

func TestEncode(t *testing.T) {
	testCases := []struct {
		description string
		doc         string
		expected    string
	}{
		{
			description: "gpc segment",
			doc:         `{"usnat":{"Gpc":true}}`,
			expected:    gpcExample,
		},
		{
			description: "us privacy with defaults",
			doc:         `{"uspv1":{"Notice":"Y"}}`,
			expected:    "DBABTA~1Y--",
		},
		{
			description: "sections wrapper",
			doc:         `{"header":{"ID":3},"sections":{"uspv1":{"Notice":"Y","OptOutSale":"N","LspaCovered":"N"}}}`,
			expected:    "DBABTA~1YNN",
		},
		{
			description: "empty document",
			doc:         `{}`,
			expected:    "DBAA",
		},
		{
			description: "section without a signal",
			doc:         `{"uspv1":{}}`,
			expected:    "DBAA",
		},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			encoded, errs := Encode(newDeps(), []byte(test.doc))
			assert.Empty(t, errs)
			assert.Equal(t, test.expected, encoded)
		})
	}
}

func TestEncodeDecodedDocument(t *testing.T) {
	deps := newDeps()
	inputs := []string{
		gpcExample,
		"DBABTA~1YNN",
		"DBABMA~CPuKGCPPuKGCPNEAAAENCZCAAAAAAAAAAAAAAAAAAAAA",
	}
	for _, input := range inputs {
		doc, err := Decode(deps, input)
		require.NoError(t, err)

		encoded, errs := Encode(deps, doc)
		assert.Empty(t, errs)
		assert.Equal(t, input, encoded)
	}
}

func TestEncodeRejectsInvalidDocuments(t *testing.T) {
	testCases := []struct {
		description string
		doc         string
	}{
		{description: "not json", doc: `{"uspv1":`},
		{description: "unknown section", doc: `{"usxx":{"Notice":"Y"}}`},
		{description: "unknown field", doc: `{"uspv1":{"Bogus":"Y"}}`},
		{description: "section is not an object", doc: `{"uspv1":"1YNN"}`},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			encoded, errs := Encode(newDeps(), []byte(test.doc))
			require.NotEmpty(t, errs)
			assert.Empty(t, encoded)
			for _, err := range errs {
				assert.Equal(t, errortypes.BadInputErrorCode, errortypes.ReadCode(err))
			}
		})
	}
}

func TestEncodeBadValue(t *testing.T) {
	encoded, errs := Encode(newDeps(), []byte(`{"tcfeuv2":{"CmpId":4096}}`))
	assert.Empty(t, encoded)
	require.Len(t, errs, 1)
	assert.Equal(t, errortypes.EncodingErrorCode, errortypes.ReadCode(errs[0]))
}

func TestEncodeSkipsDisabledSections(t *testing.T) {
	encoded, errs := Encode(newDeps(section.UspV1Name), []byte(`{"usnat":{"Gpc":true},"uspv1":{"Notice":"Y"}}`))
	assert.Equal(t, "DBABTA~1Y--", encoded)
	require.Len(t, errs, 1)
	assert.Equal(t, errortypes.DisabledSectionWarningCode, errortypes.ReadCode(errs[0]))
	assert.Empty(t, errortypes.FatalOnly(errs))
}

func TestEncodeUsesConfiguredCmp(t *testing.T) {
	deps := newDeps()
	deps.Config.TCF = config.TCF{CmpID: 31, CmpVersion: 640}

	encoded, errs := Encode(deps, []byte(`{"tcfeuv2":{"VendorListVersion":126},"tcfcav1":{"CmpId":7}}`))
	require.Empty(t, errs)

	m, err := gpp.Parse(encoded)
	require.NoError(t, err)

	expected := []struct {
		section string
		field   string
		value   int
	}{
		{section: section.TcfEuV2Name, field: "CmpId", value: 31},
		{section: section.TcfEuV2Name, field: "CmpVersion", value: 640},
		{section: section.TcfEuV2Name, field: "VendorListVersion", value: 126},
		{section: section.TcfCaV1Name, field: "CmpId", value: 7},
		{section: section.TcfCaV1Name, field: "CmpVersion", value: 640},
	}
	for _, e := range expected {
		actual, err := m.GetFieldValue(e.section, e.field)
		require.NoError(t, err)
		assert.Equal(t, e.value, actual, e.section+"."+e.field)
	}
}

func TestPatch(t *testing.T) {
	testCases := []struct {
		description string
		patch       string
		expected    string
	}{
		{
			description: "change one field",
			patch:       `{"uspv1":{"Notice":"N"}}`,
			expected:    "DBACNYA~CPXxRfAPXxRfAAfKABENB-CgAAAAAAAAAAYgAAAAAAAA~1NNN",
		},
		{
			description: "remove a section",
			patch:       `{"tcfeuv2":null}`,
			expected:    "DBABTA~1YNN",
		},
		{
			description: "reset a field",
			patch:       `{"uspv1":{"OptOutSale":null}}`,
			expected:    "DBACNYA~CPXxRfAPXxRfAAfKABENB-CgAAAAAAAAAAYgAAAAAAAA~1Y-N",
		},
		{
			description: "add a section",
			patch:       `{"usnat":{"Gpc":true}}`,
			expected:    "DBACPeA~CPXxRfAPXxRfAAfKABENB-CgAAAAAAAAAAYgAAAAAAAA~1YNN~BAAAAAAAAAAA.YA",
		},
		{
			description: "no change",
			patch:       `{"uspv1":{"Notice":"Y"}}`,
			expected:    iabExample,
		},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			patched, errs := Patch(newDeps(), iabExample, []byte(test.patch))
			assert.Empty(t, errs)
			assert.Equal(t, test.expected, patched)
		})
	}
}

func TestPatchDisabledSection(t *testing.T) {
	patched, errs := Patch(newDeps(section.UspV1Name), iabExample, []byte(`{"usnat":{"Gpc":true},"uspv1":{"Notice":"N"}}`))
	assert.Equal(t, "DBACNYA~CPXxRfAPXxRfAAfKABENB-CgAAAAAAAAAAYgAAAAAAAA~1NNN", patched)
	require.Len(t, errs, 1)
	assert.Equal(t, errortypes.DisabledSectionWarningCode, errortypes.ReadCode(errs[0]))
}

func TestPatchErrors(t *testing.T) {
	_, errs := Patch(newDeps(), "DBABLA", []byte(`{}`))
	require.Len(t, errs, 1)
	assert.Equal(t, errortypes.DecodingErrorCode, errortypes.ReadCode(errs[0]))

	_, errs = Patch(newDeps(), iabExample, []byte(`{"uspv1":`))
	require.Len(t, errs, 1)
	assert.Equal(t, errortypes.BadInputErrorCode, errortypes.ReadCode(errs[0]))

	_, errs = Patch(newDeps(), iabExample, []byte(`{"uspv1":{"Bogus":1}}`))
	require.NotEmpty(t, errs)
	assert.Equal(t, errortypes.BadInputErrorCode, errortypes.ReadCode(errs[0]))
}

func TestBatch(t *testing.T) {
	in := strings.Join([]string{
		iabExample,
		`{"gpp":"DBABTA~1YNN","gpp_sid":[6]}`,
		"",
		"DBABLA",
		`{"consent":"DBAA"}`,
		gpcExample,
	}, "\n")

	var out bytes.Buffer
	errs := Batch(newDeps(), cache.NewDummyCache(), strings.NewReader(in), &out)
	require.Len(t, errs, 1)
	assert.Equal(t, errortypes.BlankInputWarningCode, errortypes.ReadCode(errs[0]))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 5)

	expectedLines := []int64{1, 2, 4, 5, 6}
	for i, line := range lines {
		assert.Equal(t, expectedLines[i], gjson.Get(line, "line").Int(), line)
	}

	assert.Equal(t, int64(31), gjson.Get(lines[0], "result.sections.tcfeuv2.CmpId").Int())
	assert.Equal(t, "DBABTA~1YNN", gjson.Get(lines[1], "gpp").String())
	assert.Equal(t, "N", gjson.Get(lines[1], "result.sections.uspv1.OptOutSale").String())
	assert.Equal(t, int64(errortypes.DecodingErrorCode), gjson.Get(lines[2], "code").Int())
	assert.False(t, gjson.Get(lines[2], "result").Exists())
	assert.Equal(t, int64(errortypes.BadInputErrorCode), gjson.Get(lines[3], "code").Int())
	assert.True(t, gjson.Get(lines[4], "result.sections.usnat.Gpc").Bool())
}

type failingWriter struct {
	calls int
}

var errWriteFailed = errors.New("disk full")

func (w *failingWriter) Write(p []byte) (int, error) {
	w.calls++
	return 0, errWriteFailed
}

func TestBatchStopsOnWriteError(t *testing.T) {
	out := &failingWriter{}
	errs := Batch(newDeps(), cache.NewDummyCache(), strings.NewReader(strings.Repeat(iabExample+"\n", 20)), out)

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], errWriteFailed)
	assert.Equal(t, 1, out.calls)
}

func TestBatchUsesCache(t *testing.T) {
	engine := &metrics.MetricsEngineMock{}
	engine.On("RecordSnapshotCache", metrics.CacheMiss).Once()
	engine.On("RecordSnapshotCache", metrics.CacheHit).Twice()

	deps := newDeps()
	deps.Config.Batch.Workers = 1
	c := cache.New(config.Cache{Type: config.CacheTypeMemory}, engine)

	var out bytes.Buffer
	errs := Batch(deps, c, strings.NewReader(strings.Repeat(iabExample+"\n", 3)), &out)
	assert.Empty(t, errs)
	engine.AssertExpectations(t)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, gjson.Get(lines[0], "result").Raw, gjson.Get(lines[2], "result").Raw)
}

func TestDiff(t *testing.T) {
	patched, errs := Patch(newDeps(), iabExample, []byte(`{"uspv1":{"Notice":"N"}}`))
	require.Empty(t, errs)

	diff, err := Diff(newDeps(), iabExample, patched)
	require.NoError(t, err)
	assert.Contains(t, diff, `"Notice": "Y"`)
	assert.Contains(t, diff, `"Notice": "N"`)
	assert.NotContains(t, diff, `-    "CmpId"`)

	diff, err = Diff(newDeps(), iabExample, iabExample)
	require.NoError(t, err)
	assert.Empty(t, diff)

	_, err = Diff(newDeps(), iabExample, "")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		description   string
		sid           string
		expectedSID   string
		expectedCodes []int
	}{
		{description: "sid from the string", sid: "", expectedSID: "2,6"},
		{description: "matching sid", sid: "6,2", expectedSID: "6,2"},
		{description: "section missing from sid", sid: "2", expectedSID: "2", expectedCodes: []int{errortypes.BadInputErrorCode}},
		{description: "sid names an absent section", sid: "2,6,7", expectedSID: "2,6,7", expectedCodes: []int{errortypes.SIDMismatchWarningCode}},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			sid, errs := Validate(newDeps(), iabExample, test.sid)
			assert.Equal(t, test.expectedSID, sid)
			var codes []int
			for _, err := range errs {
				codes = append(codes, errortypes.ReadCode(err))
			}
			assert.Equal(t, test.expectedCodes, codes)
		})
	}

	_, errs := Validate(newDeps(), "DCAA", "")
	require.Len(t, errs, 1)
	assert.Equal(t, errortypes.DecodingErrorCode, errortypes.ReadCode(errs[0]))
}

func TestTCF(t *testing.T) {
	encoded, errs := Encode(newDeps(), []byte(`{"tcfeuv2":{"CmpId":880,"CmpVersion":1,"VendorListVersion":48,"PurposeConsents":[true,true,true],"VendorConsents":[2,6,8]}}`))
	require.Empty(t, errs)

	doc, err := TCF(newDeps(), encoded, 1, []int{2, 3, 8})
	require.NoError(t, err)

	assert.Equal(t, int64(880), gjson.GetBytes(doc, "cmpId").Int())
	assert.Equal(t, int64(48), gjson.GetBytes(doc, "vendorListVersion").Int())
	assert.Equal(t, int64(8), gjson.GetBytes(doc, "maxVendorId").Int())
	assert.JSONEq(t, `{"2":true,"3":false,"8":true}`, gjson.GetBytes(doc, "vendors").Raw)

	doc, err = TCF(newDeps(), encoded, 4, []int{2})
	require.NoError(t, err)
	assert.False(t, gjson.GetBytes(doc, "vendors.2").Bool(), "purpose without consent")

	_, err = TCF(newDeps(), "DBABTA~1YNN", 1, nil)
	assert.Equal(t, errortypes.UnknownSectionErrorCode, errortypes.ReadCode(err))
}
