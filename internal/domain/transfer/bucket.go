package transfer

import "github.com/okian/fplhelper/internal/domain/model"

// buckets groups players by position. keys records first-seen order so that
// iteration is deterministic.
type buckets struct {
	keys  []model.Position
	byPos map[model.Position][]model.Player
}

// bucketByPosition partitions players by their literal position value,
// keeping the caller's order inside each group. Unknown positions get a
// bucket of their own.
func bucketByPosition(players []model.Player) buckets {
	b := buckets{byPos: make(map[model.Position][]model.Player)}
	for _, p := range players {
		if _, ok := b.byPos[p.Position]; !ok {
			b.keys = append(b.keys, p.Position)
		}
		b.byPos[p.Position] = append(b.byPos[p.Position], p)
	}
	return b
}

func (b buckets) get(pos model.Position) []model.Player {
	return b.byPos[pos]
}
