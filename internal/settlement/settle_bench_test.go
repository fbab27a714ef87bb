package settlement

import (
	"fmt"
	"testing"

	"github.com/preston-bernstein/matchday-service/internal/domain/bets"
	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
)

func BenchmarkSettle(b *testing.B) {
	candidates := make([]fixtures.Fixture, 0, 380)
	pending := make([]bets.Prediction, 0, 40)
	for i := 0; i < 380; i++ {
		home, away := fmt.Sprintf("Team %d", i), fmt.Sprintf("Team %d", i+1000)
		date := fmt.Sprintf("2024-01-%02d", i%28+1)
		candidates = append(candidates, finished(home, away, i%4, i%3, date))
		if i%10 == 0 {
			pending = append(pending, prediction(fmt.Sprintf("p%d", i), home, away, 1, 1, date))
		}
	}
	user := bets.User{ID: "bench", Pending: pending}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Settle(user, candidates)
	}
}
