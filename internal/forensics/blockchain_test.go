package forensics

import (
	"context"
	"errors"
	"testing"

	"github.com/GemFund/gemini-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubChain struct {
	history    *models.WalletHistory
	historyErr error
	wash       *models.WashTradingResult
	washErr    error

	washDonors []string
}

func (s *stubChain) WalletHistory(ctx context.Context, address string) (*models.WalletHistory, error) {
	return s.history, s.historyErr
}

func (s *stubChain) DetectWashTrading(ctx context.Context, creator string, donors []string) (*models.WashTradingResult, error) {
	s.washDonors = donors
	return s.wash, s.washErr
}

func TestBlockchainCollectorBurnerDetection(t *testing.T) {
	tests := []struct {
		name     string
		ageHours uint
		nonce    uint
		burner   bool
	}{
		{"fresh wallet with few transactions", 5, 2, true},
		{"old wallet with few transactions", 24, 4, false},
		{"fresh wallet with many transactions", 10, 5, false},
		{"established wallet", 500, 120, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := &stubChain{history: &models.WalletHistory{Nonce: tt.nonce, AgeHours: tt.ageHours}}
			collector := NewBlockchainCollector(chain, zap.NewNop())

			got := collector.Collect(context.Background(), "0xabc", nil)

			require.NotNil(t, got)
			assert.Equal(t, tt.burner, got.IsBurnerWallet)
			assert.Equal(t, tt.nonce, got.Nonce)
			assert.Equal(t, tt.ageHours, got.AgeHours)
			assert.Equal(t, 0, got.WashTradingScore)
		})
	}
}

func TestBlockchainCollectorHistoryFailure(t *testing.T) {
	chain := &stubChain{historyErr: errors.New("explorer down")}
	collector := NewBlockchainCollector(chain, zap.NewNop())

	assert.Nil(t, collector.Collect(context.Background(), "0xabc", []string{"0x1"}))
}

func TestBlockchainCollectorWashFailureOmitsRecord(t *testing.T) {
	chain := &stubChain{
		history: &models.WalletHistory{Nonce: 100, AgeHours: 5000},
		washErr: errors.New("rate limited"),
	}
	collector := NewBlockchainCollector(chain, zap.NewNop())

	assert.Nil(t, collector.Collect(context.Background(), "0xabc", []string{"0x1"}))
}

func TestBlockchainCollectorWashScore(t *testing.T) {
	chain := &stubChain{
		history: &models.WalletHistory{Nonce: 100, AgeHours: 5000},
		wash:    &models.WashTradingResult{Score: 20, TotalChecked: 5},
	}
	collector := NewBlockchainCollector(chain, zap.NewNop())

	got := collector.Collect(context.Background(), "0xabc", []string{"0x1", "0x2", "0x3", "0x4", "0x5"})

	require.NotNil(t, got)
	assert.Equal(t, 20, got.WashTradingScore)
}

func TestBlockchainCollectorCapsDonors(t *testing.T) {
	chain := &stubChain{
		history: &models.WalletHistory{Nonce: 100, AgeHours: 5000},
		wash:    &models.WashTradingResult{Score: 0},
	}
	collector := NewBlockchainCollector(chain, zap.NewNop())

	donors := []string{"0x1", "0x2", "0x3", "0x4", "0x5", "0x6", "0x7"}
	got := collector.Collect(context.Background(), "0xabc", donors)

	require.NotNil(t, got)
	assert.Len(t, chain.washDonors, 5)
}

func TestBlockchainCollectorNoDonorsSkipsWashCheck(t *testing.T) {
	chain := &stubChain{
		history: &models.WalletHistory{Nonce: 10, AgeHours: 100},
		washErr: errors.New("must not be called"),
	}
	collector := NewBlockchainCollector(chain, zap.NewNop())

	got := collector.Collect(context.Background(), "0xabc", nil)

	require.NotNil(t, got)
	assert.Equal(t, 0, got.WashTradingScore)
}
