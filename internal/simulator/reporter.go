package simulator

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/yourusername/pitwall/internal/models"
)

// GenerateResultsReport formats a race classification for terminal output
func GenerateResultsReport(title string, results []models.RaceResult, fastest *FastestLap) string {
	var builder strings.Builder
	builder.WriteString(title + "\n")
	builder.WriteString(strings.Repeat("=", len(title)) + "\n")

	tw := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Pos\tNo\tDriver\tTeam\tLaps\tTime/Status\tPts")
	for _, r := range results {
		pos := strconv.Itoa(r.Position)
		display := r.Status
		if r.IsRetired() {
			pos = "DNF"
		} else if r.Time != nil {
			display = *r.Time
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\t%s\t%s\n", pos, r.Driver.Number, r.Driver.Name, r.Driver.Team, r.Laps, display, formatPoints(r.Points))
	}
	tw.Flush()

	if fastest != nil {
		builder.WriteString(fmt.Sprintf("\nFastest lap: %s (%s) %s on lap %d\n", fastest.Driver.Name, fastest.Driver.Team, FormatLapTime(fastest.Time), fastest.Lap))
	}
	return builder.String()
}

// GenerateLapReport formats the top of the running order after a lap
func GenerateLapReport(snap Snapshot, top int) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Lap %d/%d\n", snap.Lap, snap.TotalLaps))

	tw := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)
	shown := 0
	for _, p := range snap.Positions {
		if !p.Active {
			continue
		}
		shown++
		if shown > top {
			break
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", shown, p.Driver.Code, p.Driver.Team, FormatLapTime(p.LapTime))
	}
	tw.Flush()

	for _, r := range snap.Retirements {
		if r.Lap == snap.Lap {
			builder.WriteString(fmt.Sprintf("LAP %d - INCIDENT: %s (#%d) - %s\n", r.Lap, r.Driver.Name, r.Driver.Number, r.Description))
		}
	}
	if snap.FastestLap != nil {
		builder.WriteString(fmt.Sprintf("Fastest lap: %s %s\n", snap.FastestLap.Driver.Code, FormatLapTime(snap.FastestLap.Time)))
	}
	return builder.String()
}

// GeneratePredictionReport formats a forecast for terminal output
func GeneratePredictionReport(result *MonteCarloResult) string {
	var builder strings.Builder
	title := fmt.Sprintf("Prediction: %s (%d runs)", result.Circuit.Name, result.Runs)
	builder.WriteString(title + "\n")
	builder.WriteString(strings.Repeat("=", len(title)) + "\n")

	tw := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Rank\tDriver\tTeam\tAvg Pts\tWin %\tPodium %\tDNF %")
	for i, p := range result.Predictions {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%.1f\t%.1f\t%.1f\n",
			i+1, p.Driver.Name, p.Driver.Team, p.AveragePoints,
			p.WinProbability*100, p.PodiumProbability*100, p.DNFProbability*100)
	}
	tw.Flush()
	return builder.String()
}

// GenerateCSVExport writes a forecast as CSV
func GenerateCSVExport(result *MonteCarloResult, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"rank", "driver_id", "driver", "team", "average_points", "average_position", "win_probability", "podium_probability", "dnf_probability"})
	for i, p := range result.Predictions {
		_ = w.Write([]string{
			strconv.Itoa(i + 1),
			p.Driver.ID,
			p.Driver.Name,
			p.Driver.Team,
			strconv.FormatFloat(p.AveragePoints, 'f', 4, 64),
			strconv.FormatFloat(p.AveragePosition, 'f', 4, 64),
			strconv.FormatFloat(p.WinProbability, 'f', 4, 64),
			strconv.FormatFloat(p.PodiumProbability, 'f', 4, 64),
			strconv.FormatFloat(p.DNFProbability, 'f', 4, 64),
		})
	}
	w.Flush()
	return w.Error()
}

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head><title>Prediction Report</title></head>
<body>
<h1>{{.Circuit.Name}}</h1>
<p><strong>Runs:</strong> {{.Runs}} <strong>Mode:</strong> {{.Mode}} <strong>Seed:</strong> {{.Seed}}</p>
<table>
<tr><th>Rank</th><th>Driver</th><th>Team</th><th>Avg Pts</th><th>Win</th><th>Podium</th><th>DNF</th></tr>
{{range $i, $p := .Predictions}}<tr><td>{{inc $i}}</td><td>{{$p.Driver.Name}}</td><td>{{$p.Driver.Team}}</td><td>{{printf "%.2f" $p.AveragePoints}}</td><td>{{pct $p.WinProbability}}</td><td>{{pct $p.PodiumProbability}}</td><td>{{pct $p.DNFProbability}}</td></tr>
{{end}}</table>
</body>
</html>
`))

// GenerateHTMLReport creates a simple HTML forecast report
func GenerateHTMLReport(result *MonteCarloResult, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return htmlReport.Execute(f, result)
}

// GenerateJSONExport writes a forecast as JSON
func GenerateJSONExport(result *MonteCarloResult, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(result.ExportJSON()), 0o644)
}

func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
