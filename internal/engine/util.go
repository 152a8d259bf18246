package engine

// abs returns the absolute value of x.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Direction tables as (rank, file) steps. Order is fixed so that move
// generation is deterministic.
var (
	knightOffsets = [8][2]int{{2, 1}, {1, 2}, {-1, 2}, {-2, 1}, {-2, -1}, {-1, -2}, {1, -2}, {2, -1}}
	kingOffsets   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	diagonalDirs  = [4][2]int{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
	straightDirs  = [4][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
)
