package main

import (
	"flag"
	"fmt"
	"iter"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/mmg-tools/nxsearch/codec"
	"github.com/mmg-tools/nxsearch/nexus"
)

var samples = []string{
	"LaMnO3 film",
	"Fe2O3 powder",
	"Si(111) wafer",
	"NiO reference foil",
	"BaTiO3 crystal",
	"graphene on Cu",
	"CeO2 nanoparticles",
	"Pt catalyst pellet",
	"YBCO thin film",
	"GaAs substrate",
	"ZnO nanowires",
	"kapton blank",
	"ferrihydrite standard",
	"LiCoO2 cathode",
	"quartz reference",
}

var motors = []struct {
	name  string
	local string
	units string
	from  float64
	to    float64
}{
	{"eta", "diff.eta", "deg", 10, 12},
	{"energy", "dcm.energy", "keV", 7.0, 7.2},
	{"delta", "diff.delta", "deg", 25, 30},
	{"temp", "cryo.temp", "K", 80, 300},
	{"chi", "diff.chi", "deg", -5, 5},
}

var (
	outDir = flag.String("out", "scans", "directory for generated scan files")
	count  = flag.Int("count", 25, "number of scan files to generate")
	start  = flag.Int("start", 367900, "first scan number")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

var baseTime = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

// scanFiles yields file names and their synthetic trees. Generation is
// deterministic: the same start and count always produce the same files.
func scanFiles(start, count int) iter.Seq2[string, *nexus.Group] {
	return func(yield func(string, *nexus.Group) bool) {
		for i := range count {
			number := start + i
			if !yield(fmt.Sprintf("scan_%d.yaml", number), buildScan(number, i)) {
				return
			}
		}
	}
}

func buildScan(number, index int) *nexus.Group {
	motor := motors[index%len(motors)]
	sample := samples[index%len(samples)]
	points := 11 + 2*(index%3)

	step := (motor.to - motor.from) / float64(points-1)
	mid := (motor.from + motor.to) / 2
	width := (motor.to - motor.from) / 6

	positions := make([]float64, points)
	counts := make([]float64, points)
	for j := range points {
		x := motor.from + float64(j)*step
		positions[j] = math.Round(x*1e4) / 1e4
		// A smooth peak centered mid-scan keeps the signal plausible.
		counts[j] = math.Round(900*math.Exp(-(x-mid)*(x-mid)/(2*width*width))) + 100
	}

	measurement := nexus.NewGroup("measurement", nexus.Attrs{
		nexus.AttrClass:  nexus.Str(nexus.ClassData),
		nexus.AttrAxes:   nexus.Str(motor.name),
		nexus.AttrSignal: nexus.Str("counts"),
	}).
		Put(nexus.NewNumeric(motor.name, "float64", []int{points}, positions, nexus.Attrs{
			nexus.AttrLocalName: nexus.Str(motor.local),
			nexus.AttrUnits:     nexus.Str(motor.units),
		})).
		Put(nexus.NewNumeric("counts", "int32", []int{points}, counts, nexus.Attrs{
			nexus.AttrLocalName: nexus.Str("det.counts"),
		}))

	instrument := nexus.NewGroup("instrument", nexus.Attrs{
		nexus.AttrClass: nexus.Str(nexus.ClassInstrument),
	}).
		Put(nexus.NewString("name", "i16", nil)).
		Put(nexus.NewGroup("monochromator", nexus.Attrs{
			nexus.AttrClass: nexus.Str("NXmonochromator"),
		}).
			Put(nexus.NewScalar("energy", 7.0+0.05*float64(index%8), nexus.Attrs{
				nexus.AttrUnits: nexus.Str("keV"),
			})))

	startTime := baseTime.Add(time.Duration(index) * 9 * time.Minute)

	entry := nexus.NewGroup("entry", nexus.Attrs{
		nexus.AttrClass:   nexus.Str(nexus.ClassEntry),
		nexus.AttrDefault: nexus.Str("measurement"),
	}).
		Put(nexus.NewString("title", fmt.Sprintf("%s scan of %s", motor.name, sample), nil)).
		Put(nexus.NewString("scan_command",
			fmt.Sprintf("scan %s %g %g %g", motor.name, motor.from, motor.to,
				math.Round(step*1e4)/1e4), nil)).
		Put(nexus.NewString("start_time", startTime.Format(time.RFC3339), nil)).
		Put(nexus.NewScalar("scan_number", float64(number), nil)).
		Put(nexus.NewGroup("sample", nexus.Attrs{
			nexus.AttrClass: nexus.Str("NXsample"),
		}).
			Put(nexus.NewString("name", sample, nil))).
		Put(instrument).
		Put(measurement)

	// An absorption subentry on every fifth scan.
	if index%5 == 0 {
		entry.Put(nexus.NewGroup("xas", nexus.Attrs{
			nexus.AttrClass: nexus.Str(nexus.ClassSubentry),
		}).
			Put(nexus.NewString(nexus.DatasetDefinition, "NXxas", nil)).
			Put(nexus.NewString("mode", "transmission", nil)))
	}

	return nexus.NewGroup("", nexus.Attrs{
		nexus.AttrDefault: nexus.Str("entry"),
	}).Put(entry)
}

func main() {
	flag.Parse()
	if *count < 1 {
		log.Fatal("count must be at least 1")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	written := 0
	for name, root := range scanFiles(*start, *count) {
		if err := codec.EncodeFile(filepath.Join(*outDir, name), root); err != nil {
			log.Fatal(err)
		}
		written++
	}

	slog.Info("generated scan files", "dir", *outDir, "count", written)
}
