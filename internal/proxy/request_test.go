package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafritemema/MARS-data-build/internal/ir"
	"github.com/lafritemema/MARS-data-build/internal/model"
	"github.com/lafritemema/MARS-data-build/internal/register"
)

func intRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestSplitByLimit(t *testing.T) {
	tests := []struct {
		name     string
		start    int
		count    int
		limit    int
		expected []Batch
	}{
		{"under limit", 20, 4, 115, []Batch{{20, 4}}},
		{"exact limit", 1, 10, 10, []Batch{{1, 10}}},
		{"one over", 1, 11, 10, []Batch{{1, 10}, {11, 1}}},
		{"many", 166, 250, 120, []Batch{{166, 120}, {286, 120}, {406, 10}}},
		{"empty", 1, 0, 10, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitByLimit(tt.start, tt.count, tt.limit))
		})
	}
}

func TestBuildReadSingle(t *testing.T) {
	reqs, err := BuildRead(register.NumericInt, 9, 1)
	require.NoError(t, err)
	require.Len(t, reqs, 1)

	assert.Equal(t, ir.MethodGet, reqs[0].Method)
	assert.Equal(t, "/numericRegister/single", reqs[0].Path)
	assert.Equal(t, ir.IRObject{"reg": ir.IRInt(9), "type": ir.IRString("int")}, reqs[0].Query)
	assert.Nil(t, reqs[0].Body)
}

func TestBuildReadBatches(t *testing.T) {
	reqs, err := BuildRead(register.PositionCartesian, 1, 25)
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	expectedStarts := []int{1, 11, 21}
	expectedSizes := []int{10, 10, 5}
	total := 0
	for i, r := range reqs {
		assert.Equal(t, "/positionRegister/block", r.Path)
		assert.Equal(t, ir.IRInt(expectedStarts[i]), r.Query["startReg"])
		assert.Equal(t, ir.IRInt(expectedSizes[i]), r.Query["blockSize"])
		assert.Equal(t, ir.IRString("crt"), r.Query["type"])
		total += expectedSizes[i]
	}
	assert.Equal(t, 25, total)
}

func TestBuildReadInvalid(t *testing.T) {
	_, err := BuildRead(register.NumericInt, 1, 0)
	assert.True(t, ir.IsDataError(err))

	_, err = BuildRead("Bogus", 1, 1)
	require.Error(t, err)
	assert.True(t, ir.IsConfigError(err))
}

func TestBuildWriteScalar(t *testing.T) {
	reqs, err := BuildWrite(register.NumericInt, register.Program, ir.IRInt(2))
	require.NoError(t, err)
	require.Len(t, reqs, 1)

	got, err := ir.MarshalCanonical(reqs[0].ToIR())
	require.NoError(t, err)
	assert.Equal(t,
		`{"body":{"data":{"value":2}},"method":"PUT","path":"/numericRegister/single","query":{"reg":1,"type":"int"}}`,
		string(got))
}

func TestBuildWriteOneElementCollapses(t *testing.T) {
	list, err := BuildWrite(register.Text, 3, ir.IRArray{ir.IRString("hello")})
	require.NoError(t, err)
	scalar, err := BuildWrite(register.Text, 3, ir.IRString("hello"))
	require.NoError(t, err)

	assert.Equal(t, scalar, list)
	assert.Equal(t, "/stringRegister/single", list[0].Path)
}

func TestBuildWriteBlock(t *testing.T) {
	reqs, err := BuildWrite(register.NumericInt, register.UserTool, ir.IntArray([]int{2, 3}))
	require.NoError(t, err)
	require.Len(t, reqs, 1)

	got, err := ir.MarshalCanonical(reqs[0].ToIR())
	require.NoError(t, err)
	assert.Equal(t,
		`{"body":{"data":{"values":[2,3]}},"method":"PUT","path":"/numericRegister/block","query":{"blockSize":2,"startReg":18,"type":"int"}}`,
		string(got))
}

func TestBuildWriteBatchesReconstructInput(t *testing.T) {
	tests := []struct {
		name  string
		kind  register.Kind
		start int
		n     int
	}{
		{"numeric two batches", register.NumericInt, 20, 230},
		{"numeric trailing single", register.NumericInt, 20, 231},
		{"text", register.Text, 1, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := ir.IntArray(intRange(tt.n))
			_, writeLimit, err := register.Limits(tt.kind)
			require.NoError(t, err)

			reqs, err := BuildWrite(tt.kind, tt.start, values)
			require.NoError(t, err)

			key, err := register.BodyKey(tt.kind)
			require.NoError(t, err)

			var rebuilt ir.IRArray
			offset := tt.start
			for _, r := range reqs {
				assert.Equal(t, ir.MethodPut, r.Method)
				data := r.Body["data"].(ir.IRObject)
				slice := data[key+"s"].(ir.IRArray)
				assert.LessOrEqual(t, len(slice), writeLimit)

				if len(slice) > 1 {
					assert.Equal(t, ir.IRInt(offset), r.Query["startReg"])
				} else {
					assert.Equal(t, ir.IRInt(offset), r.Query["reg"])
				}
				rebuilt = append(rebuilt, slice...)
				offset += len(slice)
			}
			assert.Equal(t, values, rebuilt)
		})
	}
}

func TestBuildWriteEmptyList(t *testing.T) {
	_, err := BuildWrite(register.NumericInt, 20, ir.IRArray{})
	require.Error(t, err)
	assert.True(t, ir.IsDataError(err))
}

func TestBuildTrackAlert(t *testing.T) {
	gen := NewFixedGenerator("uid-1")
	req, uid, err := BuildTrack(gen, register.NumericInt, register.Process, 1000,
		&Expectation{Relation: model.NotEqual, Value: ir.IRInt(ProcessInProgress)})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)

	got, err := ir.MarshalCanonical(req.ToIR())
	require.NoError(t, err)
	assert.Equal(t,
		`{"body":{"setting":{"settings":{"expected":{"data":{"value":-1},"relation":"neq"},"interval":1000,"tracker":"alert","uid":"uid-1"},"type":"tracker"}},"method":"SUBSCRIBE","path":"/numericRegister/single","query":{"reg":9,"type":"int"}}`,
		string(got))
}

func TestBuildTrackReport(t *testing.T) {
	req, uid, err := BuildTrack(NewFixedGenerator("uid-7"), register.NumericFloat, 166, 250, nil)
	require.NoError(t, err)
	assert.Equal(t, "uid-7", uid)

	settings := req.Body["setting"].(ir.IRObject)["settings"].(ir.IRObject)
	assert.Equal(t, ir.IRString("report"), settings["tracker"])
	assert.Equal(t, ir.IRInt(250), settings["interval"])
	assert.NotContains(t, settings, "expected")
	assert.Equal(t, "/numericRegister/single", req.Path)
}

func TestBuildTrackInvalidExpectation(t *testing.T) {
	_, _, err := BuildTrack(NewFixedGenerator("u"), register.NumericInt, 9, 1000, &Expectation{Relation: model.Equal})
	assert.True(t, ir.IsDataError(err))

	_, _, err = BuildTrack(NewFixedGenerator("u"), register.NumericInt, 9, 1000, &Expectation{Relation: "lt", Value: ir.IRInt(1)})
	assert.True(t, ir.IsDataError(err))
}

func TestBuildTrackFreshUIDs(t *testing.T) {
	gen := UUIDGenerator{}
	_, a, err := BuildTrack(gen, register.NumericInt, 9, 1000, nil)
	require.NoError(t, err)
	_, b, err := BuildTrack(gen, register.NumericInt, 9, 1000, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
