package bootstrap

import (
	"fmt"

	coinsapp "github.com/jackyeh168/cartquest/src/internal/application/coins"
	promotionapp "github.com/jackyeh168/cartquest/src/internal/application/promotion"
	referralapp "github.com/jackyeh168/cartquest/src/internal/application/referral"
	voucherapp "github.com/jackyeh168/cartquest/src/internal/application/voucher"
	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/promotion"
	"github.com/jackyeh168/cartquest/src/internal/domain/referral"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/jackyeh168/cartquest/src/internal/domain/voucher"
	"github.com/jackyeh168/cartquest/src/internal/infrastructure/catalog"
	"github.com/jackyeh168/cartquest/src/internal/infrastructure/config"
	"github.com/jackyeh168/cartquest/src/internal/infrastructure/events"
	"github.com/jackyeh168/cartquest/src/internal/infrastructure/lock"
	"github.com/jackyeh168/cartquest/src/internal/infrastructure/logging"
	"github.com/jackyeh168/cartquest/src/internal/infrastructure/metrics"
	"github.com/jackyeh168/cartquest/src/internal/infrastructure/persistence"
	"github.com/jackyeh168/cartquest/src/internal/interfaces/httpapi"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ===========================
// 依賴組裝
// ===========================

// Infrastructure 組裝 Use Case 所需的基礎設施
//
// Log / Metrics 為 nil 時丟棄輸出；Random 為 nil 時使用全域亂數；Products 為 nil 時使用內建商品目錄。
type Infrastructure struct {
	DB       *gorm.DB
	Log      *logrus.Entry
	Metrics  *metrics.Metrics
	Random   shared.RandomSource
	Products []promotion.Product
}

// NewServices repositories → domain services → use cases
//
// 同一程序內所有寫入帳本的 Use Case 共用一個 LedgerService（與其 KeyedMutex）。
func NewServices(cfg *config.Config, infra Infrastructure) (httpapi.Services, error) {
	rewardConfig, err := cfg.Rewards.RewardConfig()
	if err != nil {
		return httpapi.Services{}, fmt.Errorf("invalid rewards config: %w", err)
	}
	guessRules, err := cfg.Promotion.GuessRules()
	if err != nil {
		return httpapi.Services{}, fmt.Errorf("invalid promotion config: %w", err)
	}

	if infra.Log == nil {
		infra.Log = logging.Discard()
	}
	if infra.Metrics == nil {
		infra.Metrics = metrics.New()
	}
	random := infra.Random
	if random == nil {
		random = shared.DefaultRandom()
	}
	products := infra.Products
	if products == nil {
		products = catalog.DefaultProducts()
	}

	ledgerRepo := persistence.NewLedgerRepository(infra.DB)
	referralRepo := persistence.NewReferralRepository(infra.DB)
	voucherRepo := persistence.NewVoucherRepository(infra.DB)
	txManager := persistence.NewGORMTransactionManager(infra.DB)
	publisher := events.NewLogPublisher(infra.Log, infra.Metrics)
	locker := lock.NewKeyedMutex()

	calculator := coins.NewRewardCalculator(rewardConfig)
	ledger := coinsapp.NewLedgerService(
		ledgerRepo,
		txManager,
		publisher,
		coinsapp.WithLocker(locker),
		coinsapp.WithObserver(infra.Metrics),
		coinsapp.WithLogger(infra.Log.WithField("component", "ledger")),
		coinsapp.WithMaxRetries(cfg.Ledger.MaxAppendRetries),
	)

	issuer := voucherapp.NewIssuer(
		voucherRepo,
		voucher.NewCodeGenerator(cfg.Voucher.CodePrefix, random),
		cfg.Voucher.TTL,
		cfg.Voucher.MaxCodeAttempts,
	)

	wheel, err := promotion.NewWheel(promotion.DefaultSectors(), random)
	if err != nil {
		return httpapi.Services{}, fmt.Errorf("invalid wheel: %w", err)
	}
	productCatalog := catalog.NewStaticCatalog(products, random)

	return httpapi.Services{
		GetBalance:        coinsapp.NewGetBalanceUseCase(ledger, rewardConfig),
		ListTransactions:  coinsapp.NewListTransactionsUseCase(ledgerRepo),
		CalculateDiscount: coinsapp.NewCalculateDiscountUseCase(ledger, calculator),
		SpendForDiscount:  coinsapp.NewSpendForDiscountUseCase(ledger, calculator, issuer),
		GetCoinStats:      coinsapp.NewGetCoinStatsUseCase(ledger),
		EarnFromPurchase:  coinsapp.NewEarnFromPurchaseUseCase(ledger, calculator),

		GenerateReferralCode: referralapp.NewGenerateReferralCodeUseCase(
			referralRepo,
			txManager,
			referral.NewCodeGenerator(cfg.Referral.CodePrefix, random),
			rewardConfig,
			publisher,
			locker,
			infra.Log.WithField("component", "referral"),
			cfg.Referral.MaxCodeAttempts,
		),
		ApplyReferralCode:    referralapp.NewApplyReferralCodeUseCase(referralRepo, ledger, rewardConfig),
		ExpireReferralCode:   referralapp.NewExpireReferralCodeUseCase(referralRepo, txManager, publisher, infra.Log.WithField("component", "referral")),
		ListMyReferrals:      referralapp.NewListMyReferralsUseCase(referralRepo, rewardConfig),
		GetReferralStats:     referralapp.NewGetReferralStatsUseCase(referralRepo, rewardConfig),
		ValidateReferralCode: referralapp.NewValidateReferralCodeUseCase(referralRepo, rewardConfig),

		ListVouchers:    voucherapp.NewListVouchersUseCase(voucherRepo),
		ValidateVoucher: voucherapp.NewValidateVoucherUseCase(voucherRepo),
		RedeemVoucher:   voucherapp.NewRedeemVoucherUseCase(voucherRepo, txManager, publisher, infra.Log.WithField("component", "voucher")),

		SpinWheel:   promotionapp.NewSpinWheelUseCase(wheel, issuer, txManager, publisher, infra.Log.WithField("component", "promotion")),
		GuessPrice:  promotionapp.NewGuessPriceUseCase(productCatalog, guessRules, ledger),
		Leaderboard: promotionapp.NewLeaderboardUseCase(ledgerRepo),
	}, nil
}
