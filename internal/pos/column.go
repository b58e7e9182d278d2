package pos

import "github.com/rivo/uniseg"

// CountColumn returns the display column reached after the first end bytes of
// line. Tabs advance to the next multiple of tabSize, every other grapheme
// cluster advances by its display width. A negative end, or one past the line,
// measures the whole line.
func CountColumn(line string, end int, tabSize int) int {
	if tabSize < 1 {
		tabSize = 1
	}
	if end < 0 || end > len(line) {
		end = len(line)
	}

	col := 0
	rest := line[:end]
	state := -1
	for len(rest) > 0 {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "\t" {
			col += tabSize - col%tabSize
		} else {
			col += width
		}
	}
	return col
}

// FindColumn returns the byte offset in line at which display column goal is
// reached, or len(line) if the line is shorter. A cluster straddling goal
// resolves to its start.
func FindColumn(line string, goal int, tabSize int) int {
	if tabSize < 1 {
		tabSize = 1
	}
	if goal <= 0 {
		return 0
	}

	col := 0
	offset := 0
	rest := line
	state := -1
	for len(rest) > 0 {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		next := col + width
		if cluster == "\t" {
			next = col + tabSize - col%tabSize
		}
		if next > goal {
			return offset
		}
		col = next
		offset += len(cluster)
		if col == goal {
			return offset
		}
	}
	return offset
}

// ClusterBoundary returns the byte offset of the grapheme boundary nearest to
// ch without passing it. Used to keep columns off the middle of a cluster.
func ClusterBoundary(line string, ch int) int {
	if ch <= 0 {
		return 0
	}
	if ch >= len(line) {
		return len(line)
	}
	offset := 0
	rest := line
	state := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if offset+len(cluster) > ch {
			return offset
		}
		offset += len(cluster)
	}
	return offset
}

// NextCluster returns the byte offset of the grapheme boundary after ch.
func NextCluster(line string, ch int) int {
	if ch >= len(line) {
		return len(line)
	}
	start := ClusterBoundary(line, ch)
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(line[start:], -1)
	return start + len(cluster)
}

// PrevCluster returns the byte offset of the grapheme boundary before ch.
func PrevCluster(line string, ch int) int {
	if ch <= 0 {
		return 0
	}
	if ch > len(line) {
		ch = len(line)
	}
	prev := 0
	offset := 0
	rest := line
	state := -1
	for len(rest) > 0 && offset < ch {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		prev = offset
		offset += len(cluster)
	}
	return prev
}
