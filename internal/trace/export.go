package trace

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes one row per sample with a header line.
func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"time_ms", "value", "contrast", "direction", "phase", "stepped"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 3, 64),
			strconv.FormatFloat(s.Value, 'f', 6, 64),
			strconv.FormatFloat(s.Contrast, 'f', 6, 64),
			s.Direction.String(),
			s.Phase.String(),
			strconv.FormatBool(s.Stepped),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
