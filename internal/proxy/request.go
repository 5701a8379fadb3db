package proxy

import (
	"log/slog"

	"github.com/lafritemema/MARS-data-build/internal/ir"
	"github.com/lafritemema/MARS-data-build/internal/model"
	"github.com/lafritemema/MARS-data-build/internal/register"
)

// Tracker types.
const (
	trackerAlert  = "alert"
	trackerReport = "report"
)

// Expectation turns a tracker into an alert: the proxy signals once the
// register value satisfies Relation against Value.
type Expectation struct {
	Relation model.Relation
	Value    ir.IRValue
}

// Batch is a contiguous register range addressed by one request.
type Batch struct {
	Start int
	Count int
}

// SplitByLimit carves count registers starting at start into consecutive
// batches of at most limit registers. Batch counts sum to count and each
// batch starts where the previous one ended.
func SplitByLimit(start, count, limit int) []Batch {
	if count <= 0 {
		return nil
	}
	if limit <= 0 || count <= limit {
		return []Batch{{Start: start, Count: count}}
	}

	batches := make([]Batch, 0, (count+limit-1)/limit)
	offset := start
	remaining := count
	for remaining > 0 {
		n := min(remaining, limit)
		batches = append(batches, Batch{Start: offset, Count: n})
		offset += n
		remaining -= n
	}
	return batches
}

// routingFor picks the routing from the requested register count.
func routingFor(count int) register.Routing {
	if count > 1 {
		return register.Block
	}
	return register.Single
}

// BuildRead returns the GET requests reading count registers from start.
// Reads beyond the family read limit are split into batches.
func BuildRead(kind register.Kind, start, count int) ([]ir.ProxyRequest, error) {
	if count < 1 {
		return nil, ir.NewDataError(origin, "read of %d registers", count)
	}
	readLimit, _, err := register.Limits(kind)
	if err != nil {
		return nil, ir.AddOrigin(err, origin)
	}
	path, err := register.Path(kind, routingFor(count))
	if err != nil {
		return nil, ir.AddOrigin(err, origin)
	}

	batches := SplitByLimit(start, count, readLimit)
	if len(batches) > 1 {
		slog.Debug("read split into batches",
			"kind", kind,
			"start", start,
			"count", count,
			"batches", len(batches))
	}

	reqs := make([]ir.ProxyRequest, 0, len(batches))
	for _, b := range batches {
		query, err := register.Query(kind, b.Start, b.Count)
		if err != nil {
			return nil, ir.AddOrigin(err, origin)
		}
		reqs = append(reqs, ir.ProxyRequest{
			Method: ir.MethodGet,
			Path:   path,
			Query:  query,
		})
	}
	return reqs, nil
}

// BuildWrite returns the PUT requests writing value from start.
//
// A scalar gives one single-routed request. An ir.IRArray gives block-routed
// requests, split at the family write limit; a one-element array is written
// as its scalar. An empty array is a data error.
func BuildWrite(kind register.Kind, start int, value ir.IRValue) ([]ir.ProxyRequest, error) {
	if value == nil {
		return nil, ir.NewDataError(origin, "write of nil value at register %d", start)
	}
	if arr, ok := value.(ir.IRArray); ok {
		switch len(arr) {
		case 0:
			return nil, ir.NewDataError(origin, "write of empty list at register %d", start)
		case 1:
			value = arr[0]
		default:
			return buildBlockWrite(kind, start, arr)
		}
	}

	path, err := register.Path(kind, register.Single)
	if err != nil {
		return nil, ir.AddOrigin(err, origin)
	}
	query, err := register.Query(kind, start, 1)
	if err != nil {
		return nil, ir.AddOrigin(err, origin)
	}
	data, err := register.Body(kind, value)
	if err != nil {
		return nil, ir.AddOrigin(err, origin)
	}
	return []ir.ProxyRequest{{
		Method: ir.MethodPut,
		Path:   path,
		Query:  query,
		Body:   ir.IRObject{"data": data},
	}}, nil
}

func buildBlockWrite(kind register.Kind, start int, values ir.IRArray) ([]ir.ProxyRequest, error) {
	_, writeLimit, err := register.Limits(kind)
	if err != nil {
		return nil, ir.AddOrigin(err, origin)
	}
	path, err := register.Path(kind, register.Block)
	if err != nil {
		return nil, ir.AddOrigin(err, origin)
	}

	batches := SplitByLimit(start, len(values), writeLimit)
	if len(batches) > 1 {
		slog.Debug("write split into batches",
			"kind", kind,
			"start", start,
			"count", len(values),
			"batches", len(batches))
	}

	reqs := make([]ir.ProxyRequest, 0, len(batches))
	for _, b := range batches {
		offset := b.Start - start
		slice := values[offset : offset+b.Count]

		query, err := register.Query(kind, b.Start, b.Count)
		if err != nil {
			return nil, ir.AddOrigin(err, origin)
		}
		data, err := register.Body(kind, slice)
		if err != nil {
			return nil, ir.AddOrigin(err, origin)
		}
		reqs = append(reqs, ir.ProxyRequest{
			Method: ir.MethodPut,
			Path:   path,
			Query:  query,
			Body:   ir.IRObject{"data": data},
		})
	}
	return reqs, nil
}

// BuildTrack returns a SUBSCRIBE request watching one register, and the
// fresh uid identifying the tracker. With an expectation the tracker is an
// alert, otherwise a periodic report.
func BuildTrack(gen UIDGenerator, kind register.Kind, reg, intervalMs int, exp *Expectation) (ir.ProxyRequest, string, error) {
	path, err := register.Path(kind, register.Single)
	if err != nil {
		return ir.ProxyRequest{}, "", ir.AddOrigin(err, origin)
	}
	query, err := register.Query(kind, reg, 1)
	if err != nil {
		return ir.ProxyRequest{}, "", ir.AddOrigin(err, origin)
	}

	uid := gen.Generate()
	settings := ir.IRObject{
		"tracker":  ir.IRString(trackerReport),
		"interval": ir.IRInt(intervalMs),
		"uid":      ir.IRString(uid),
	}
	if exp != nil {
		if exp.Value == nil {
			return ir.ProxyRequest{}, "", ir.NewDataError(origin, "tracker expectation on register %d has no value", reg)
		}
		if exp.Relation != model.Equal && exp.Relation != model.NotEqual {
			return ir.ProxyRequest{}, "", ir.NewDataError(origin, "tracker expectation on register %d has invalid relation %q", reg, exp.Relation)
		}
		data, err := register.Body(kind, exp.Value)
		if err != nil {
			return ir.ProxyRequest{}, "", ir.AddOrigin(err, origin)
		}
		settings["tracker"] = ir.IRString(trackerAlert)
		settings["expected"] = ir.IRObject{
			"data":     data,
			"relation": ir.IRString(exp.Relation),
		}
	}

	slog.Debug("tracker built", "kind", kind, "reg", reg, "uid", uid)

	return ir.ProxyRequest{
		Method: ir.MethodSubscribe,
		Path:   path,
		Query:  query,
		Body: ir.IRObject{
			"setting": ir.IRObject{
				"type":     ir.IRString("tracker"),
				"settings": settings,
			},
		},
	}, uid, nil
}
