package forensics

import (
	"context"

	"github.com/GemFund/gemini-service/internal/models"

	"go.uber.org/zap"
)

const maxDonorChecks = 5

// ChainClient is the wallet-data dependency of the blockchain collector.
type ChainClient interface {
	WalletHistory(ctx context.Context, address string) (*models.WalletHistory, error)
	DetectWashTrading(ctx context.Context, creatorAddress string, donorAddresses []string) (*models.WashTradingResult, error)
}

// BlockchainCollector derives wallet forensics for the campaign creator.
type BlockchainCollector struct {
	chain  ChainClient
	logger *zap.Logger
}

// NewBlockchainCollector creates a new blockchain collector
func NewBlockchainCollector(chain ChainClient, logger *zap.Logger) *BlockchainCollector {
	return &BlockchainCollector{chain: chain, logger: logger}
}

// Collect fetches wallet history and runs the wash-trading check. The source
// is all-or-nothing: if any step fails, the whole record is omitted (nil)
// rather than returned half-filled.
func (c *BlockchainCollector) Collect(ctx context.Context, creatorAddress string, donorAddresses []string) *models.BlockchainForensics {
	history, err := c.chain.WalletHistory(ctx, creatorAddress)
	if err != nil {
		c.logger.Warn("Blockchain forensics unavailable",
			zap.String("address", creatorAddress),
			zap.Error(err))
		return nil
	}

	if len(donorAddresses) > maxDonorChecks {
		donorAddresses = donorAddresses[:maxDonorChecks]
	}

	washScore := 0
	if len(donorAddresses) > 0 {
		wash, err := c.chain.DetectWashTrading(ctx, creatorAddress, donorAddresses)
		if err != nil {
			c.logger.Warn("Wash trading check failed, omitting blockchain forensics",
				zap.String("address", creatorAddress),
				zap.Error(err))
			return nil
		}
		washScore = wash.Score
	}

	return &models.BlockchainForensics{
		Nonce:            history.Nonce,
		AgeHours:         history.AgeHours,
		WashTradingScore: washScore,
		IsBurnerWallet:   history.AgeHours < 24 && history.Nonce < 5,
	}
}
