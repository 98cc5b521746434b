package app

import (
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"
	"github.com/vendormart/vendormart/internal/domain"
	"go.uber.org/zap"
)

// Carts untouched this long are reported by the daily sweep.
const staleCartAge = 30 * 24 * time.Hour

func (a *Application) initJob() {
	a.sched = cron.New()

	_, err := a.sched.AddFunc("@every 10m", a.expireStaleOtps)
	if err != nil {
		zap.S().Error("failed to register otp expiry job", err)
	}

	_, err = a.sched.AddFunc("@daily", a.sweepStaleCarts)
	if err != nil {
		zap.S().Error("failed to register stale cart sweep", err)
	}
}

// expireStaleOtps clears OTP codes past their expiry so a stale code can
// never verify an account.
func (a *Application) expireStaleOtps() {
	res := a.gormDB.Model(&domain.Vendor{}).
		Where("otp <> '' AND otp_expire_at IS NOT NULL AND otp_expire_at < ?", time.Now()).
		Updates(map[string]interface{}{"otp": "", "otp_expire_at": nil})
	if res.Error != nil {
		zap.L().Error("otp expiry sweep failed", zap.Error(res.Error))
		return
	}
	if res.RowsAffected > 0 {
		zap.L().Info("expired stale otp codes", zap.Int64("count", res.RowsAffected))
	}
}

// sweepStaleCarts audits long-untouched carts. Totals are verified
// against the line subtotals and repaired if a legacy import left them
// inconsistent; the work fans out over a small worker pool.
func (a *Application) sweepStaleCarts() {
	var carts []domain.Cart
	cutoff := time.Now().Add(-staleCartAge)
	if err := a.gormDB.Preload("Items").Where("updated_at < ?", cutoff).Find(&carts).Error; err != nil {
		zap.L().Error("stale cart sweep query failed", zap.Error(err))
		return
	}
	if len(carts) == 0 {
		return
	}

	pool, err := ants.NewPool(4)
	if err != nil {
		zap.L().Error("stale cart sweep pool init failed", zap.Error(err))
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range carts {
		cart := carts[i]
		wg.Add(1)
		_ = pool.Submit(func() {
			defer wg.Done()
			before := cart.Total
			cart.Recalc()
			if cart.Total != before {
				if err := a.gormDB.Model(&domain.Cart{}).Where("id = ?", cart.ID).
					Update("total", cart.Total).Error; err != nil {
					zap.L().Error("failed to repair cart total", zap.Int64("cart_id", cart.ID), zap.Error(err))
					return
				}
				zap.L().Warn("repaired inconsistent cart total",
					zap.String("mobile", cart.Mobile),
					zap.Float64("stored", before),
					zap.Float64("computed", cart.Total))
			}
			zap.L().Info("stale cart", zap.String("mobile", cart.Mobile), zap.Time("updated_at", cart.UpdatedAt))
		})
	}
	wg.Wait()
}
