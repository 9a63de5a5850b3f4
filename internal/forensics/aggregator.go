// Package forensics collects fraud evidence from independent sources and
// merges it into a single bundle. Collectors run in parallel and are isolated
// from each other: one failing or panicking source never discards the rest.
package forensics

import (
	"context"
	"sync"

	"github.com/GemFund/gemini-service/internal/models"
	"github.com/GemFund/gemini-service/internal/scratch"

	"go.uber.org/zap"
)

// Input carries everything the collectors can work from for one assessment.
type Input struct {
	Media           []models.MediaItem
	LocalFiles      []scratch.LocalFile
	CreatorWallet   string
	DonorWallets    []string
	CreatorIdentity *models.CreatorIdentity
}

// Aggregator fans an assessment out to all evidence collectors.
type Aggregator struct {
	blockchain   *BlockchainCollector
	exif         *ExifCollector
	reverseImage *ReverseImageCollector
	identity     *IdentityCollector
	logger       *zap.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(blockchain *BlockchainCollector, exif *ExifCollector, reverseImage *ReverseImageCollector, identity *IdentityCollector, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		blockchain:   blockchain,
		exif:         exif,
		reverseImage: reverseImage,
		identity:     identity,
		logger:       logger,
	}
}

// Collect runs every applicable collector concurrently and merges their
// results. Blockchain and identity only run when their input is present;
// EXIF and reverse-image always produce a record, defaulted if necessary.
func (a *Aggregator) Collect(ctx context.Context, in Input) models.Forensics {
	forensics := models.Forensics{
		Exif:         models.DefaultExifForensics(),
		ReverseImage: models.DefaultReverseImageForensics(),
	}

	var wg sync.WaitGroup

	if in.CreatorWallet != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer a.recover("blockchain")
			forensics.Blockchain = a.blockchain.Collect(ctx, in.CreatorWallet, in.DonorWallets)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer a.recover("exif")
		forensics.Exif = a.exif.Collect(ctx, in.LocalFiles)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer a.recover("reverse_image")
		forensics.ReverseImage = a.reverseImage.Collect(ctx, in.Media)
	}()

	if in.CreatorIdentity != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer a.recover("identity")
			forensics.Identity = a.identity.Collect(ctx, *in.CreatorIdentity)
		}()
	}

	wg.Wait()
	return forensics
}

func (a *Aggregator) recover(collector string) {
	if r := recover(); r != nil {
		a.logger.Error("Evidence collector panicked",
			zap.String("collector", collector),
			zap.Any("panic", r))
	}
}
