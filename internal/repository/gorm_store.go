package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"auction-market/internal/auctionerrors"
	model "auction-market/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sortable whitelists the columns the public auction listing may order by.
var sortable = map[string]bool{
	"id":          true,
	"title":       true,
	"start_price": true,
	"highest_bid": true,
	"start_time":  true,
	"end_time":    true,
	"created_at":  true,
}

// GormStore implements every store interface on top of a GORM database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Open opens (or creates) the sqlite database at path and migrates the schema.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.AccessToken{},
		&model.Category{},
		&model.Auction{},
		&model.Bid{},
		&model.Transaction{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// isUniqueViolation detects duplicate-key failures across drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "UNIQUE") || strings.Contains(s, "unique") ||
		strings.Contains(s, "Duplicate entry")
}

// ---- auctions ----

func (s *GormStore) CreateAuction(a *model.Auction) error {
	if err := s.db.Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create auction %q: %w", a.Title, auctionerrors.ErrDuplicateName)
		}
		return fmt.Errorf("create auction %q: %w", a.Title, err)
	}
	return nil
}

func (s *GormStore) GetAuction(id uint) (model.Auction, error) {
	var a model.Auction
	if err := s.db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Auction{}, fmt.Errorf("get auction %d: %w", id, auctionerrors.ErrAuctionNotFound)
		}
		return model.Auction{}, fmt.Errorf("get auction %d: %w", id, err)
	}
	return a, nil
}

func (s *GormStore) ListAuctions(f AuctionFilter) ([]model.Auction, int64, error) {
	q := s.db.Model(&model.Auction{})

	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if f.Title != "" {
		q = q.Where("title LIKE ?", "%"+f.Title+"%")
	}
	if f.Description != "" {
		q = q.Where("description LIKE ?", "%"+f.Description+"%")
	}
	if f.MinStartPrice != nil {
		q = q.Where("start_price >= ?", *f.MinStartPrice)
	}
	if f.MaxStartPrice != nil {
		q = q.Where("start_price <= ?", *f.MaxStartPrice)
	}
	if f.MinHighestBid != nil {
		q = q.Where("highest_bid >= ?", *f.MinHighestBid)
	}
	if f.MaxHighestBid != nil {
		q = q.Where("highest_bid <= ?", *f.MaxHighestBid)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.SellerID != 0 {
		q = q.Where("seller_id = ?", f.SellerID)
	}
	if f.StartsBefore != nil {
		q = q.Where("start_time <= ?", *f.StartsBefore)
	}
	if f.StartsAfter != nil {
		q = q.Where("start_time >= ?", *f.StartsAfter)
	}
	if f.EndsBefore != nil {
		q = q.Where("end_time <= ?", *f.EndsBefore)
	}
	if f.EndsAfter != nil {
		q = q.Where("end_time >= ?", *f.EndsAfter)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count auctions: %w", err)
	}

	sortBy := f.SortBy
	if !sortable[sortBy] {
		sortBy = "created_at"
	}
	sortDir := "desc"
	if f.SortDir == "asc" {
		sortDir = "asc"
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	perPage := f.PerPage
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	var auctions []model.Auction
	err := q.Order(sortBy + " " + sortDir).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&auctions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list auctions: %w", err)
	}
	return auctions, total, nil
}

func (s *GormStore) UpdateAuction(id uint, fields map[string]any) (model.Auction, error) {
	if len(fields) > 0 {
		err := s.db.Model(&model.Auction{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			if isUniqueViolation(err) {
				return model.Auction{}, fmt.Errorf("update auction %d: %w", id, auctionerrors.ErrDuplicateName)
			}
			return model.Auction{}, fmt.Errorf("update auction %d: %w", id, err)
		}
	}
	return s.GetAuction(id)
}

func (s *GormStore) DeleteAuction(id uint) error {
	if err := s.db.Delete(&model.Auction{}, id).Error; err != nil {
		return fmt.Errorf("delete auction %d: %w", id, err)
	}
	return nil
}

func (s *GormStore) SetHighestBid(auctionID uint, amount *float64) error {
	err := s.db.Model(&model.Auction{}).Where("id = ?", auctionID).
		Update("highest_bid", amount).Error
	if err != nil {
		return fmt.Errorf("set highest bid for auction %d: %w", auctionID, err)
	}
	return nil
}

// ---- bids ----

func (s *GormStore) CreateBid(b *model.Bid) error {
	if err := s.db.Create(b).Error; err != nil {
		return fmt.Errorf("create bid for auction %d: %w", b.AuctionID, err)
	}
	return nil
}

func (s *GormStore) GetBid(id uint) (model.Bid, error) {
	var b model.Bid
	err := s.db.Preload("Auction").Preload("Bidder").First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Bid{}, fmt.Errorf("get bid %d: %w", id, auctionerrors.ErrBidNotFound)
		}
		return model.Bid{}, fmt.Errorf("get bid %d: %w", id, err)
	}
	return b, nil
}

func (s *GormStore) ListBids() ([]model.Bid, error) {
	var bids []model.Bid
	err := s.db.Preload("Auction").Preload("Bidder").
		Order("created_at DESC").Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	return bids, nil
}

func (s *GormStore) ListBidsByAuction(auctionID uint) ([]model.Bid, error) {
	var bids []model.Bid
	err := s.db.Preload("Auction").Preload("Bidder").
		Where("auction_id = ?", auctionID).
		Order("created_at ASC").Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("list bids for auction %d: %w", auctionID, err)
	}
	return bids, nil
}

func (s *GormStore) ListBidsByBidder(bidderID uint) ([]model.Bid, error) {
	var bids []model.Bid
	err := s.db.Preload("Auction").Preload("Bidder").
		Where("bidder_id = ?", bidderID).
		Order("created_at DESC").Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("list bids for user %d: %w", bidderID, err)
	}
	return bids, nil
}

func (s *GormStore) UpdateBidAmount(id uint, amount float64) error {
	err := s.db.Model(&model.Bid{}).Where("id = ?", id).Update("amount", amount).Error
	if err != nil {
		return fmt.Errorf("update bid %d: %w", id, err)
	}
	return nil
}

func (s *GormStore) DeleteBid(id uint) error {
	if err := s.db.Delete(&model.Bid{}, id).Error; err != nil {
		return fmt.Errorf("delete bid %d: %w", id, err)
	}
	return nil
}

func (s *GormStore) MaxBidAmount(auctionID, excludeBidID uint) (*float64, error) {
	q := s.db.Model(&model.Bid{}).Where("auction_id = ?", auctionID)
	if excludeBidID > 0 {
		q = q.Where("id <> ?", excludeBidID)
	}
	var res sql.NullFloat64
	if err := q.Select("MAX(amount)").Scan(&res).Error; err != nil {
		return nil, fmt.Errorf("max bid amount for auction %d: %w", auctionID, err)
	}
	if !res.Valid {
		return nil, nil
	}
	max := res.Float64
	return &max, nil
}

// ---- transactions ----

func (s *GormStore) CreateTransaction(t *model.Transaction) error {
	if err := s.db.Create(t).Error; err != nil {
		// The unique index on auction_id is the guard of last resort
		// against two concurrent settlements of the same auction.
		if isUniqueViolation(err) {
			return fmt.Errorf("create transaction for auction %d: %w", t.AuctionID, auctionerrors.ErrAlreadySettled)
		}
		return fmt.Errorf("create transaction for auction %d: %w", t.AuctionID, err)
	}
	return nil
}

func (s *GormStore) GetTransaction(id uint) (model.Transaction, error) {
	var t model.Transaction
	err := s.db.Preload("Auction").Preload("Buyer").First(&t, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Transaction{}, fmt.Errorf("get transaction %d: %w", id, auctionerrors.ErrTransactionNotFound)
		}
		return model.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

func (s *GormStore) ListTransactions() ([]model.Transaction, error) {
	var txs []model.Transaction
	err := s.db.Preload("Auction").Preload("Buyer").
		Order("created_at DESC").Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *GormStore) ListTransactionsByBuyer(buyerID uint) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := s.db.Preload("Auction").Preload("Buyer").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions for buyer %d: %w", buyerID, err)
	}
	return txs, nil
}

func (s *GormStore) TransactionExists(auctionID uint) (bool, error) {
	var count int64
	err := s.db.Model(&model.Transaction{}).
		Where("auction_id = ?", auctionID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check transaction for auction %d: %w", auctionID, err)
	}
	return count > 0, nil
}

// ---- categories ----

func (s *GormStore) CreateCategory(c *model.Category) error {
	if err := s.db.Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create category %q: %w", c.Name, auctionerrors.ErrDuplicateName)
		}
		return fmt.Errorf("create category %q: %w", c.Name, err)
	}
	return nil
}

func (s *GormStore) GetCategory(id uint) (model.Category, error) {
	var c model.Category
	if err := s.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Category{}, fmt.Errorf("get category %d: %w", id, auctionerrors.ErrCategoryNotFound)
		}
		return model.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

func (s *GormStore) ListCategories() ([]model.Category, error) {
	var cats []model.Category
	if err := s.db.Order("name ASC").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *GormStore) UpdateCategory(id uint, fields map[string]any) (model.Category, error) {
	if len(fields) > 0 {
		err := s.db.Model(&model.Category{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			if isUniqueViolation(err) {
				return model.Category{}, fmt.Errorf("update category %d: %w", id, auctionerrors.ErrDuplicateName)
			}
			return model.Category{}, fmt.Errorf("update category %d: %w", id, err)
		}
	}
	return s.GetCategory(id)
}

func (s *GormStore) DeleteCategory(id uint) error {
	if err := s.db.Delete(&model.Category{}, id).Error; err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

// ---- users & tokens ----

func (s *GormStore) CreateUser(u *model.User) error {
	if err := s.db.Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create user %q: %w", u.Email, auctionerrors.ErrDuplicateEmail)
		}
		return fmt.Errorf("create user %q: %w", u.Email, err)
	}
	return nil
}

func (s *GormStore) GetUser(id uint) (model.User, error) {
	var u model.User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, fmt.Errorf("get user %d: %w", id, auctionerrors.ErrUserNotFound)
		}
		return model.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func (s *GormStore) GetUserByEmail(email string) (model.User, error) {
	var u model.User
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, fmt.Errorf("get user %q: %w", email, auctionerrors.ErrUserNotFound)
		}
		return model.User{}, fmt.Errorf("get user %q: %w", email, err)
	}
	return u, nil
}

func (s *GormStore) CreateToken(t *model.AccessToken) error {
	if err := s.db.Create(t).Error; err != nil {
		return fmt.Errorf("create token for user %d: %w", t.UserID, err)
	}
	return nil
}

func (s *GormStore) GetUserByToken(token string) (model.User, error) {
	var at model.AccessToken
	if err := s.db.Where("token = ?", token).First(&at).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, fmt.Errorf("lookup token: %w", auctionerrors.ErrUnauthorized)
		}
		return model.User{}, fmt.Errorf("lookup token: %w", err)
	}
	return s.GetUser(at.UserID)
}

func (s *GormStore) DeleteToken(token string) error {
	err := s.db.Where("token = ?", token).Delete(&model.AccessToken{}).Error
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// ---- stats ----

func (s *GormStore) CollectStats(now time.Time) (Stats, error) {
	var st Stats

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&st.TotalUsers, s.db.Model(&model.User{})},
		{&st.TotalBuyers, s.db.Model(&model.User{}).Where("role = ?", model.RoleBuyer)},
		{&st.TotalSellers, s.db.Model(&model.User{}).Where("role = ?", model.RoleSeller)},
		{&st.TotalAuctions, s.db.Model(&model.Auction{})},
		{&st.ActiveAuctions, s.db.Model(&model.Auction{}).Where("start_time <= ? AND end_time >= ?", now, now)},
		{&st.ScheduledAuctions, s.db.Model(&model.Auction{}).Where("start_time > ?", now)},
		{&st.FinishedAuctions, s.db.Model(&model.Auction{}).Where("end_time < ?", now)},
		{&st.TotalBids, s.db.Model(&model.Bid{})},
		{&st.TotalTransactions, s.db.Model(&model.Transaction{})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return Stats{}, fmt.Errorf("collect stats: %w", err)
		}
	}

	var revenue, avg sql.NullFloat64
	err := s.db.Model(&model.Transaction{}).Select("SUM(final_price)").Scan(&revenue).Error
	if err != nil {
		return Stats{}, fmt.Errorf("collect stats: %w", err)
	}
	err = s.db.Model(&model.Transaction{}).Select("AVG(final_price)").Scan(&avg).Error
	if err != nil {
		return Stats{}, fmt.Errorf("collect stats: %w", err)
	}
	st.RevenueTotal = revenue.Float64
	st.AvgFinalPrice = avg.Float64
	if st.TotalAuctions > 0 {
		st.AvgBidsPerAuction = math.Round(float64(st.TotalBids)/float64(st.TotalAuctions)*100) / 100
	}

	return st, nil
}
