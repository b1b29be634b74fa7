package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/scorelang/scorelang/cmd"
)

// roundTrip writes the rendered file to bytes and parses it back, so the
// assertions cover the real on-disk format.
func roundTrip(t *testing.T, source string) *smf.SMF {
	t.Helper()
	s, warnings, err := cmd.Compile(source, 480)
	assert.NoError(t, err)
	assert.Empty(t, warnings)

	var buf bytes.Buffer
	_, err = s.WriteTo(&buf)
	assert.NoError(t, err)

	parsed, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	return parsed
}

func collectNoteOns(track smf.Track) (ticks []uint64, keys []uint8) {
	var abs uint64
	for _, ev := range track {
		abs += uint64(ev.Delta)
		var channel, key, vel uint8
		if ev.Message.GetNoteOn(&channel, &key, &vel) {
			ticks = append(ticks, abs)
			keys = append(keys, key)
		}
	}
	return
}

func TestCompileScaleEndToEnd(t *testing.T) {
	parsed := roundTrip(t, `piano { V1: c4/4 d4/4 e4/4 f4/4; }`)

	assert := assert.New(t)
	assert.Len(parsed.Tracks, 2)

	ticks, keys := collectNoteOns(parsed.Tracks[1])
	assert.Equal([]uint8{60, 62, 64, 65}, keys)
	assert.Equal([]uint64{0, 480, 960, 1440}, ticks)
}

func TestCompileMultiInstrumentScore(t *testing.T) {
	source := `
(tempo 100)
(key g 'major)
piano {
  @mf
  V1: :legato c4/4 d4/4 e4/4 f4/4 | @crescendo g4/4 a4/4 b4/4 c5/4;
}
drums {
  V1: kick/4 hat/4 snare/4 hat/4;
}`
	parsed := roundTrip(t, source)

	assert := assert.New(t)
	assert.Len(parsed.Tracks, 3)

	_, keys := collectNoteOns(parsed.Tracks[1])
	// f is sharpened by the key of G
	assert.Equal([]uint8{60, 62, 64, 66, 67, 69, 71, 72}, keys)

	_, drumKeys := collectNoteOns(parsed.Tracks[2])
	assert.Equal([]uint8{36, 42, 38, 42}, drumKeys)
}

func TestCompileReportsWarnings(t *testing.T) {
	_, warnings, err := cmd.Compile(`(tempo 500) piano { V1: c4/1; }`, 480)

	assert.NoError(t, err)
	assert.Len(t, warnings, 1)
}

func TestCompileRejectsBrokenMeasure(t *testing.T) {
	_, _, err := cmd.Compile(`piano { V1: c4/4 d4/4 | e4/1; }`, 480)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "measure 1")
}

func compileRequest(t *testing.T, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/compile", bytes.NewReader(data))
	w := httptest.NewRecorder()
	cmd.HandleCompile(w, req)
	return w
}

func TestCompileOverHTTP(t *testing.T) {
	w := compileRequest(t, map[string]any{"source": `piano { V1: c4/4 d4/4 e4/4 f4/4; }`})
	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)

	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)
	assert.Equal("audio/midi", resp.Header.Get("Content-Type"))

	parsed, err := smf.ReadFrom(bytes.NewReader(respBody))
	assert.NoError(err)
	_, keys := collectNoteOns(parsed.Tracks[1])
	assert.Equal([]uint8{60, 62, 64, 65}, keys)
}

func TestCompileOverHTTPRejectsBadSource(t *testing.T) {
	w := compileRequest(t, map[string]any{"source": `piano { V1: c4/4 d4/4; }`})
	resp := w.Result()

	assert := assert.New(t)
	assert.Equal(422, resp.StatusCode)

	var body map[string]any
	assert.NoError(json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(body["error"], "measure")
}

func TestCompileOverHTTPRequiresSource(t *testing.T) {
	w := compileRequest(t, map[string]any{"ppq": 96})

	assert.Equal(t, 400, w.Result().StatusCode)
}
