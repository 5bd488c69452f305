package commands

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/alitto/pond"
	"github.com/buger/jsonparser"
	"github.com/prebid/gpp-codec/cache"
	"github.com/prebid/gpp-codec/errortypes"
	"github.com/prebid/gpp-codec/logger"
	"github.com/tidwall/sjson"
)

const maxLineSize = 1024 * 1024

type batchResult struct {
	gpp    string
	output []byte
	err    error
}

// Batch decodes one GPP string per input line on a pool of cfg.Batch.Workers workers and
// writes one JSON object per line, in input order. A line is either a bare GPP string or a
// JSON object with a "gpp" member. Results are looked up in and stored to c.
//
// Lines which fail to decode are reported in the output and do not stop the batch. The
// returned errors hold warnings for skipped lines and any read or write failure.
func Batch(deps Deps, c cache.Cache, in io.Reader, out io.Writer) []error {
	pool := pond.New(deps.Config.Batch.Workers, 0)

	var (
		results []*batchResult
		errs    []error
	)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for line := 1; scanner.Scan(); line++ {
		input, err := batchInput(scanner.Bytes())
		if err != nil {
			results = append(results, &batchResult{err: err})
			continue
		}
		if input == "" {
			errs = append(errs, &errortypes.Warning{
				Message:     fmt.Sprintf("line %d is blank and was skipped", line),
				WarningCode: errortypes.BlankInputWarningCode,
			})
			results = append(results, nil)
			continue
		}

		result := &batchResult{gpp: input}
		results = append(results, result)
		pool.Submit(func() {
			result.output, result.err = decodeCached(deps, c, result.gpp)
		})
	}
	pool.StopAndWait()

	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
	}

	w := bufio.NewWriter(out)
	for i, result := range results {
		if result == nil {
			continue
		}
		doc, err := batchLine(i+1, result)
		if err != nil {
			return append(errs, err)
		}
		if _, err := w.Write(doc); err != nil {
			return append(errs, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return append(errs, err)
		}
	}
	if err := w.Flush(); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func batchInput(line []byte) (string, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return string(line), nil
	}
	input, err := jsonparser.GetString(line, "gpp")
	if err != nil {
		return "", &errortypes.BadInput{Message: fmt.Sprintf("no gpp string in %s: %v", line, err)}
	}
	return input, nil
}

func decodeCached(deps Deps, c cache.Cache, input string) ([]byte, error) {
	if doc, ok := c.Get(input); ok {
		return doc, nil
	}
	doc, err := Decode(deps, input)
	if err != nil {
		logger.Debugf("batch decode of %q failed: %v", input, err)
		return nil, err
	}
	c.Set(input, doc)
	return doc, nil
}

func batchLine(line int, result *batchResult) ([]byte, error) {
	doc, err := sjson.SetBytes([]byte(`{}`), "line", line)
	if err != nil {
		return nil, err
	}
	if result.gpp != "" {
		if doc, err = sjson.SetBytes(doc, "gpp", result.gpp); err != nil {
			return nil, err
		}
	}
	if result.err != nil {
		doc, err = sjson.SetBytes(doc, "error", result.err.Error())
		if err != nil {
			return nil, err
		}
		return sjson.SetBytes(doc, "code", errortypes.ReadCode(result.err))
	}
	return sjson.SetRawBytes(doc, "result", result.output)
}
