package settlement

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/gobid/internal/config"
	"github.com/GlebRadaev/gobid/internal/domain"
	"github.com/GlebRadaev/gobid/pkg/keylock"
)

type AuctionRepo interface {
	GetByID(ctx context.Context, id int) (*domain.Auction, error)
	FindActive(ctx context.Context) ([]domain.Auction, error)
	UpdateStatus(ctx context.Context, id int, status string) error
}

type BidRepo interface {
	CountByAuction(ctx context.Context, auctionID int) (int, error)
}

var settlingAuctions sync.Map

// Report итог одного прохода фоновой задачи.
type Report struct {
	Scanned int32
	Ended   int32
	NoBid   int32
	Failed  int32
}

type Service struct {
	auctionRepo   AuctionRepo
	bidRepo       BidRepo
	locks         *keylock.KeyLock
	workerPool    WorkerPoolI
	sweepInterval time.Duration
	now           func() time.Time
}

func New(cfg *config.Config, auctionRepo AuctionRepo, bidRepo BidRepo, locks *keylock.KeyLock) *Service {
	return &Service{
		auctionRepo:   auctionRepo,
		bidRepo:       bidRepo,
		locks:         locks,
		workerPool:    NewWorkerPool(10),
		sweepInterval: cfg.SweepInterval,
		now:           time.Now,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Settlement service started", zap.Duration("interval", s.sweepInterval))
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping service")
			return
		case <-ticker.C:
			report := s.Sweep(ctx)
			if report.Ended > 0 || report.NoBid > 0 || report.Failed > 0 {
				zap.L().Info("sweep finished",
					zap.Int32("scanned", report.Scanned),
					zap.Int32("ended", report.Ended),
					zap.Int32("noBid", report.NoBid),
					zap.Int32("failed", report.Failed),
				)
			}
		}
	}
}

// Sweep переводит все просроченные активные аукционы в терминальный статус.
// Ошибка по одному аукциону не прерывает обработку остальных; такой аукцион
// остаётся активным до следующего прохода. Перекрывающиеся проходы
// безопасны: аукционы в работе пропускаются, а сам переход защищён тем же
// замком, что и приём ставок.
func (s *Service) Sweep(ctx context.Context) Report {
	var report Report

	auctions, err := s.auctionRepo.FindActive(ctx)
	if err != nil {
		zap.L().Error("Failed to fetch active auctions", zap.Error(err))
		return report
	}

	now := s.now()
	var wg sync.WaitGroup
	var g errgroup.Group
	for _, auction := range auctions {
		auction := auction

		if now.Before(auction.EndTime) {
			continue
		}
		atomic.AddInt32(&report.Scanned, 1)

		if _, loaded := settlingAuctions.LoadOrStore(auction.ID, struct{}{}); loaded {
			continue
		}

		wg.Add(1)
		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer wg.Done()
				defer settlingAuctions.Delete(auction.ID)
				return s.settle(ctx, auction.ID, &report)
			})
			if err != nil {
				wg.Done()
				settlingAuctions.Delete(auction.ID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error settling auctions", zap.Error(err))
	}
	wg.Wait()
	return report
}

// settle выполняет переход для одного аукциона под его замком: состояние
// перечитывается после захвата, поэтому ставка, принятая между выборкой и
// захватом, уже видна при подсчёте.
func (s *Service) settle(ctx context.Context, auctionID int, report *Report) error {
	s.locks.Lock(auctionID)
	defer s.locks.Unlock(auctionID)

	auction, err := s.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		atomic.AddInt32(&report.Failed, 1)
		return err
	}
	if auction == nil || auction.Status != domain.ActiveAuctionStatus {
		return nil
	}
	if s.now().Before(auction.EndTime) {
		return nil
	}

	count, err := s.bidRepo.CountByAuction(ctx, auctionID)
	if err != nil {
		atomic.AddInt32(&report.Failed, 1)
		return err
	}

	status := domain.NoBidAuctionStatus
	if count > 0 {
		status = domain.EndedAuctionStatus
	}
	if err := s.auctionRepo.UpdateStatus(ctx, auctionID, status); err != nil {
		atomic.AddInt32(&report.Failed, 1)
		return err
	}

	if status == domain.EndedAuctionStatus {
		atomic.AddInt32(&report.Ended, 1)
	} else {
		atomic.AddInt32(&report.NoBid, 1)
	}
	zap.L().Info("auction settled", zap.Int("auctionID", auctionID), zap.String("status", status))
	return nil
}
