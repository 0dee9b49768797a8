package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitwall/internal/models"
	"github.com/yourusername/pitwall/internal/simulator"
)

func TestInteractiveObserverPauses(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader("\n\n\n"))
	observe := interactiveObserver(&out, in, 0, 2)

	for lap := 1; lap <= 4; lap++ {
		require.NoError(t, observe(simulator.Snapshot{Lap: lap, TotalLaps: 4}))
	}

	// paused after lap 2 and on the penultimate lap, never after the last
	assert.Equal(t, 2, strings.Count(out.String(), "Press Enter to continue"))
	assert.Contains(t, out.String(), "Lap 4/4")
}

func TestInteractiveObserverNoPause(t *testing.T) {
	var out bytes.Buffer
	observe := interactiveObserver(&out, bufio.NewReader(strings.NewReader("")), 0, 0)

	for lap := 1; lap <= 3; lap++ {
		require.NoError(t, observe(simulator.Snapshot{Lap: lap, TotalLaps: 3}))
	}
	assert.NotContains(t, out.String(), "Press Enter")
}

func TestPrintSimulationHeader(t *testing.T) {
	var out bytes.Buffer
	circuit := models.Circuit{Name: "Autodromo Nazionale Monza", Laps: 53, LengthKM: 5.793}
	printSimulationHeader(&out, circuit, 2024, models.DefaultSimulationParameters())

	assert.Contains(t, out.String(), "Simulating Autodromo Nazionale Monza 2024")
	assert.Contains(t, out.String(), "53 laps, 5.793 km")
	assert.Contains(t, out.String(), "Reliability factor: 0.95")
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"simulate", "predict", "historical", "list", "update", "serve", "migrate"} {
		assert.Contains(t, names, want)
	}
}
