package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// WriteCSV writes the tick series of all runs as long-format CSV:
// one row per (run, tick), with the run's parameters repeated.
func WriteCSV(w io.Writer, runs []Run) error {
	cw := csv.NewWriter(w)

	header := []string{"run_id", "cohort", "agents", "facts", "seed", "tick", "rate"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, run := range runs {
		for tick, rate := range run.Rates {
			record := []string{
				run.ID,
				run.Cohort,
				strconv.Itoa(run.Agents),
				strconv.Itoa(run.Facts),
				strconv.FormatUint(run.Seed, 10),
				strconv.Itoa(tick),
				strconv.FormatFloat(rate, 'g', -1, 64),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("writing CSV row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// tickSchema is the Arrow schema for the long-format tick series.
var tickSchema = arrow.NewSchema([]arrow.Field{
	{Name: "run_id", Type: arrow.BinaryTypes.String},
	{Name: "cohort", Type: arrow.BinaryTypes.String},
	{Name: "agents", Type: arrow.PrimitiveTypes.Int64},
	{Name: "facts", Type: arrow.PrimitiveTypes.Int64},
	{Name: "seed", Type: arrow.PrimitiveTypes.Int64},
	{Name: "tick", Type: arrow.PrimitiveTypes.Int64},
	{Name: "rate", Type: arrow.PrimitiveTypes.Float64},
}, nil)

// writeSeeker adapts an io.Writer to the io.WriteSeeker required by
// ipc.NewFileWriter, which only ever calls Seek(0, io.SeekCurrent) to
// query the current write position.
type writeSeeker struct {
	w   io.Writer
	pos int64
}

func (ws *writeSeeker) Write(p []byte) (int, error) {
	n, err := ws.w.Write(p)
	ws.pos += int64(n)
	return n, err
}

func (ws *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	if offset == 0 && whence == io.SeekCurrent {
		return ws.pos, nil
	}
	return 0, fmt.Errorf("seek not supported on underlying writer")
}

// WriteArrow writes the tick series of all runs as a single-record Arrow
// IPC file in the same long format as WriteCSV. Arrow keeps large sweeps
// loadable by analysis tooling without a CSV parse.
func WriteArrow(w io.Writer, runs []Run) error {
	builder := array.NewRecordBuilder(memory.DefaultAllocator, tickSchema)
	defer builder.Release()

	runID := builder.Field(0).(*array.StringBuilder)
	cohort := builder.Field(1).(*array.StringBuilder)
	agents := builder.Field(2).(*array.Int64Builder)
	facts := builder.Field(3).(*array.Int64Builder)
	seed := builder.Field(4).(*array.Int64Builder)
	tickCol := builder.Field(5).(*array.Int64Builder)
	rateCol := builder.Field(6).(*array.Float64Builder)

	for _, run := range runs {
		for tick, rate := range run.Rates {
			runID.Append(run.ID)
			cohort.Append(run.Cohort)
			agents.Append(int64(run.Agents))
			facts.Append(int64(run.Facts))
			seed.Append(int64(run.Seed))
			tickCol.Append(int64(tick))
			rateCol.Append(rate)
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	fw, err := ipc.NewFileWriter(&writeSeeker{w: w}, ipc.WithSchema(tickSchema))
	if err != nil {
		return fmt.Errorf("creating Arrow writer: %w", err)
	}

	if err := fw.Write(record); err != nil {
		fw.Close()
		return fmt.Errorf("writing Arrow record: %w", err)
	}

	return fw.Close()
}
