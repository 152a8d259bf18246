package engine

import (
	"fmt"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/errors"
)

// IsValidMove reports whether after follows from before by exactly one
// legal move of team.
func IsValidMove(before, after *chess.Board, team chess.Team) bool {
	return CheckTransition(before, after, team) == nil
}

// CheckTransition reconstructs the move that turns before into after and
// confirms it is legal for team, working only from board geometry. It
// returns nil for a legal transition, an error wrapping ErrIllegalMove that
// names the failed check otherwise, or ErrMalformedSnapshot for nil boards.
func CheckTransition(before, after *chess.Board, team chess.Team) error {
	if before == nil || after == nil {
		return fmt.Errorf("nil board: %w", errors.ErrMalformedSnapshot)
	}
	if !team.Valid() {
		return rejectf("unknown team %d", team)
	}

	c := ClassifyDiff(before, after)
	if len(c.Squares) == 0 {
		return rejectf("boards are identical")
	}
	for _, p := range c.MoveTo {
		if !p.Piece.BelongsTo(team) {
			return rejectf("%v appeared on %v", p.Piece, p.Square)
		}
	}
	for _, p := range c.Take {
		if !p.Piece.BelongsTo(team) {
			return rejectf("%v replaced a piece on %v", p.Piece, p.Square)
		}
	}

	for _, t := range [2]chess.Team{chess.White, chess.Black} {
		if n := after.CountKind(t, chess.King); n != 1 {
			return rejectf("%s has %d kings", t, n)
		}
	}
	if IsInCheck(after, team) {
		return rejectf("%s king left in check", team)
	}
	if err := checkFreshPawns(before, after, team, c); err != nil {
		return err
	}

	if matched, err := checkEnPassant(c, team); matched {
		return err
	}
	if matched, err := checkCastling(before, c, team); matched {
		return err
	}

	if len(c.MoveFrom) != 1 || len(c.MoveTo)+len(c.Take) != 1 {
		return rejectf("%d squares vacated and %d occupied, want one each",
			len(c.MoveFrom), len(c.MoveTo)+len(c.Take))
	}
	from := c.MoveFrom[0]
	var landing Placement
	if len(c.MoveTo) == 1 {
		landing = c.MoveTo[0]
	} else {
		landing = c.Take[0]
	}
	if !from.Piece.BelongsTo(team) {
		return rejectf("%v on %v does not belong to %s", from.Piece, from.Square, team)
	}

	if isPromotion(c, team, from, landing) {
		return nil
	}
	return checkReachable(before, team, from, landing)
}

// checkFreshPawns enforces the fresh pawn lifecycle: the mover's old fresh
// pawns revert, the opponent's stay fresh, and the only new fresh pawn is
// one that just landed.
func checkFreshPawns(before, after *chess.Board, team chess.Team, c Changes) error {
	opponentFresh := chess.MakePiece(team.Opponent(), chess.FreshPawn)
	teamFresh := chess.MakePiece(team, chess.FreshPawn)

	for r := 1; r <= chess.BoardSize; r++ {
		for f := 1; f <= chess.BoardSize; f++ {
			sq := chess.Sq(r, f)
			was, now := before.At(sq), after.At(sq)
			if was == opponentFresh && now == chess.MakePiece(team.Opponent(), chess.Pawn) {
				return rejectf("%s fresh pawn on %v reverted out of turn", team.Opponent(), sq)
			}
			if now == teamFresh && !c.landed(sq, teamFresh) {
				return rejectf("%s fresh pawn on %v was not reverted", team, sq)
			}
		}
	}
	return nil
}

// checkEnPassant looks for a team pawn landing behind an enemy fresh pawn
// that vanished. matched is false when the transition is not an en passant
// capture at all.
func checkEnPassant(c Changes, team chess.Team) (matched bool, err error) {
	pawn := chess.MakePiece(team, chess.Pawn)
	enemyFresh := chess.MakePiece(team.Opponent(), chess.FreshPawn)

	captures := 0
	for _, p := range c.MoveTo {
		if p.Piece != pawn {
			continue
		}
		behind, ok := p.Square.Offset(-team.Forward(), 0)
		if !ok || !c.vacated(behind, enemyFresh) {
			continue
		}
		captures++

		origins := 0
		for _, df := range [2]int{-1, 1} {
			if beside, ok := behind.Offset(0, df); ok && c.vacated(beside, pawn) {
				origins++
			}
		}
		if origins != 1 {
			return true, rejectf("en passant onto %v has %d capturing pawns", p.Square, origins)
		}
	}

	switch {
	case captures == 0:
		return false, nil
	case captures > 1:
		return true, rejectf("%d en passant captures in one move", captures)
	case len(c.Squares) != 3:
		return true, rejectf("en passant changed %d squares, want 3", len(c.Squares))
	}
	return true, nil
}

// checkCastling matches the king and rook relocation of either castling
// geometry. matched is false when neither geometry appears.
func checkCastling(before *chess.Board, c Changes, team chess.Team) (matched bool, err error) {
	rank := team.BackRank()
	king := chess.MakePiece(team, chess.King)
	rook := chess.MakePiece(team, chess.Rook)

	var found []castleSide
	for _, side := range castleSides {
		if c.vacated(chess.Sq(rank, kingHomeFile), king) &&
			c.vacated(chess.Sq(rank, side.rookFrom), rook) &&
			c.landed(chess.Sq(rank, side.kingTo), king) &&
			c.landed(chess.Sq(rank, side.rookTo), rook) {
			found = append(found, side)
		}
	}

	switch {
	case len(found) == 0:
		return false, nil
	case len(found) > 1:
		return true, rejectf("both castling geometries matched")
	case len(c.Squares) != 4:
		return true, rejectf("castling changed %d squares, want 4", len(c.Squares))
	case !canCastle(before, team, found[0]):
		return true, rejectf("castling to %v not allowed: corridor blocked or king attacked",
			chess.Sq(rank, found[0].kingTo))
	}
	return true, nil
}

// isPromotion reports a team pawn stepping from the seventh rank onto the
// far back rank, straight ahead onto an empty square or diagonally onto an
// enemy, and becoming a promotable piece.
func isPromotion(c Changes, team chess.Team, from, landing Placement) bool {
	far := team.Opponent().BackRank()
	if !from.Piece.Kind().IsPawn() || from.Square.Rank != far-team.Forward() {
		return false
	}
	if landing.Square.Rank != far || !landing.Piece.Kind().IsPromotion() {
		return false
	}
	switch abs(landing.Square.File - from.Square.File) {
	case 0:
		return len(c.MoveTo) == 1
	case 1:
		return len(c.Take) == 1
	}
	return false
}

// checkReachable confirms the move generator can take the vacating piece
// to the landing square as the landing piece.
func checkReachable(before *chess.Board, team chess.Team, from, landing Placement) error {
	for _, m := range PossibleMovesFrom(before, team, from.Square) {
		if m.To == landing.Square && m.Piece == landing.Piece.Kind() {
			return nil
		}
	}
	return rejectf("%v cannot move from %v to %v as %v",
		from.Piece, from.Square, landing.Square, landing.Piece)
}

// SnapshotFromRows builds a board from rows indexed [rank-1][file-1].
// Anything other than 8 rows of 8 codes is a malformed snapshot.
func SnapshotFromRows(rows [][]chess.Piece) (*chess.Board, error) {
	if len(rows) != chess.BoardSize {
		return nil, fmt.Errorf("snapshot has %d ranks: %w", len(rows), errors.ErrMalformedSnapshot)
	}
	b := chess.NewBoard()
	for r, row := range rows {
		if len(row) != chess.BoardSize {
			return nil, fmt.Errorf("snapshot rank %d has %d files: %w", r+1, len(row), errors.ErrMalformedSnapshot)
		}
		for f, p := range row {
			if p != chess.Empty && !p.Kind().Valid() {
				return nil, fmt.Errorf("snapshot code %d on rank %d: %w", p, r+1, errors.ErrMalformedSnapshot)
			}
			b.Squares[r][f] = p
		}
	}
	return b, nil
}

func rejectf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), errors.ErrIllegalMove)
}
