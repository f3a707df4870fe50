package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"

	"github.com/Gabriellgpc/self-supervision-exploration/dataset"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 0, 4)
)

func newPlainTable(withHeader bool) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if withHeader && row == 1 {
				s = headerRowStyle
				return
			}
			switch {
			case row%2 == 0:
				// Even row style.
				s = oddRowStyle
			default:
				// Odd row style
				s = evenRowStyle
			}
			if col == 0 {
				s = s.Align(lipgloss.Right)
			} else {
				s = s.Align(lipgloss.Left)
			}
			return
		})
}

// How many labels the summary lists before folding the rest into one row.
const maxSummaryLabels = 10

// printSummary pretty-prints the loaded catalog: identity, sizes and the most
// frequent labels.
func printSummary(ds *dataset.Dataset) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Dataset %s, split %q", ds.Name, ds.Split)))
	table := newPlainTable(false)
	table.Row("Directory", ds.Dir)
	table.Row("Samples", humanize.Comma(int64(ds.NumSamples())))
	table.Row("Objects", humanize.Comma(int64(ds.NumDetections())))
	table.Row("Labels", strconv.Itoa(len(ds.Labels())))
	if size, err := ds.SizeOnDisk(); err == nil {
		table.Row("Size on disk", humanize.IBytes(uint64(size)))
	} else {
		klog.Warningf("failed to measure dataset size on disk: %v", err)
	}
	fmt.Println(table.Render())

	counts := ds.CountLabels()
	if len(counts) == 0 {
		return
	}
	labels := ds.Labels()
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	table = newPlainTable(true)
	table.Row("Label", "Objects")
	rest := 0
	for i, label := range labels {
		if i < maxSummaryLabels {
			table.Row(label, humanize.Comma(int64(counts[label])))
		} else {
			rest += counts[label]
		}
	}
	if rest > 0 {
		table.Row(fmt.Sprintf("(%d more)", len(labels)-maxSummaryLabels), humanize.Comma(int64(rest)))
	}
	fmt.Println(table.Render())
}
