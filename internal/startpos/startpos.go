// Package startpos generates randomized starting positions: the back
// rank is shuffled so that the bishops land on opposite-colored squares
// and the king stands strictly between the two rooks. Pawns and the
// rest of the board are standard.
package startpos

import (
	"fmt"
	"math/rand"
	"strings"
)

var basePieces = []byte{'r', 'n', 'b', 'q', 'k', 'b', 'n', 'r'}

// Backrank returns a randomized legal back rank as eight lowercase
// piece letters.
func Backrank() string {
	b := make([]byte, len(basePieces))
	for {
		copy(b, basePieces)
		rand.Shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })
		if validBackrank(b) {
			return string(b)
		}
	}
}

// FEN returns a complete starting FEN built around a randomized back
// rank. Castling rights are omitted: with rooks off their standard
// files there is no castle to resolve.
func FEN() string {
	rank := Backrank()
	return fmt.Sprintf("%s/pppppppp/8/8/8/8/PPPPPPPP/%s w - - 0 1", rank, strings.ToUpper(rank))
}

func validBackrank(b []byte) bool {
	bishop1, bishop2 := -1, -1
	rook1, rook2, king := -1, -1, -1
	for i, p := range b {
		switch p {
		case 'b':
			if bishop1 < 0 {
				bishop1 = i
			} else {
				bishop2 = i
			}
		case 'r':
			if rook1 < 0 {
				rook1 = i
			} else {
				rook2 = i
			}
		case 'k':
			king = i
		}
	}
	if bishop1%2 == bishop2%2 {
		return false
	}
	return rook1 < king && king < rook2
}
