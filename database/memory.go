package database

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"food-reels-server/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps every collection in process. Documents are copied on the
// way in and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]*models.User
	partners map[primitive.ObjectID]*models.FoodPartner
	feeds    []*models.FoodFeed
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[primitive.ObjectID]*models.User),
		partners: make(map[primitive.ObjectID]*models.FoodPartner),
	}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func copyUser(u *models.User) *models.User {
	c := *u
	c.Following = slices.Clone(u.Following)
	c.LikedReels = slices.Clone(u.LikedReels)
	c.SavedReels = slices.Clone(u.SavedReels)
	return &c
}

func copyPartner(p *models.FoodPartner) *models.FoodPartner {
	c := *p
	c.Specialties = slices.Clone(p.Specialties)
	c.CuisineTypes = slices.Clone(p.CuisineTypes)
	c.Followers = slices.Clone(p.Followers)
	c.Certificates = slices.Clone(p.Certificates)
	return &c
}

func copyFeed(f *models.FoodFeed) *models.FoodFeed {
	c := *f
	c.Ingredients = slices.Clone(f.Ingredients)
	c.Steps = slices.Clone(f.Steps)
	c.Hashtags = slices.Clone(f.Hashtags)
	c.Comments = slices.Clone(f.Comments)
	if f.NutritionInfo != nil {
		n := *f.NutritionInfo
		c.NutritionInfo = &n
	}
	return &c
}

func (m *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *MemoryStore) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (m *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, *copyUser(u))
		}
	}
	return out, nil
}

func (m *MemoryStore) HasLikedReel(_ context.Context, userID, feedID primitive.ObjectID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return false, nil
	}
	return slices.Contains(u.LikedReels, feedID), nil
}

func (m *MemoryStore) AddLikedReel(_ context.Context, userID, feedID primitive.ObjectID) (bool, error) {
	return m.updateUserSet(userID, func(u *models.User) *[]primitive.ObjectID { return &u.LikedReels }, feedID, true)
}

func (m *MemoryStore) RemoveLikedReel(_ context.Context, userID, feedID primitive.ObjectID) (bool, error) {
	return m.updateUserSet(userID, func(u *models.User) *[]primitive.ObjectID { return &u.LikedReels }, feedID, false)
}

func (m *MemoryStore) AddFollowing(_ context.Context, userID, partnerID primitive.ObjectID) (bool, error) {
	return m.updateUserSet(userID, func(u *models.User) *[]primitive.ObjectID { return &u.Following }, partnerID, true)
}

func (m *MemoryStore) RemoveFollowing(_ context.Context, userID, partnerID primitive.ObjectID) (bool, error) {
	return m.updateUserSet(userID, func(u *models.User) *[]primitive.ObjectID { return &u.Following }, partnerID, false)
}

func (m *MemoryStore) updateUserSet(userID primitive.ObjectID, field func(*models.User) *[]primitive.ObjectID, value primitive.ObjectID, add bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return false, ErrNotFound
	}
	changed := updateSet(field(u), value, add)
	if changed {
		u.UpdatedAt = time.Now().UTC()
	}
	return changed, nil
}

func updateSet(set *[]primitive.ObjectID, value primitive.ObjectID, add bool) bool {
	i := slices.Index(*set, value)
	switch {
	case add && i < 0:
		*set = append(*set, value)
		return true
	case !add && i >= 0:
		*set = slices.Delete(*set, i, i+1)
		return true
	}
	return false
}

func (m *MemoryStore) CreatePartner(_ context.Context, partner *models.FoodPartner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.partners {
		if p.BusinessEmail == partner.BusinessEmail {
			return ErrDuplicate
		}
	}
	if partner.ID.IsZero() {
		partner.ID = primitive.NewObjectID()
	}
	m.partners[partner.ID] = copyPartner(partner)
	return nil
}

func (m *MemoryStore) FindPartnerByID(_ context.Context, id primitive.ObjectID) (*models.FoodPartner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.partners[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyPartner(p), nil
}

func (m *MemoryStore) FindPartnerByEmail(_ context.Context, email string) (*models.FoodPartner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.partners {
		if p.BusinessEmail == email {
			return copyPartner(p), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindPartnersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.FoodPartner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.FoodPartner
	for _, id := range ids {
		if p, ok := m.partners[id]; ok {
			out = append(out, *copyPartner(p))
		}
	}
	return out, nil
}

func (m *MemoryStore) UpdatePartner(_ context.Context, id primitive.ObjectID, update models.PartnerUpdate) (*models.FoodPartner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.partners[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.BusinessDescription != nil {
		p.BusinessDescription = *update.BusinessDescription
	}
	if update.Specialties != nil {
		p.Specialties = slices.Clone(update.Specialties)
	}
	if update.CuisineTypes != nil {
		p.CuisineTypes = slices.Clone(update.CuisineTypes)
	}
	if update.ProfileImage != nil {
		p.ProfileImage = *update.ProfileImage
	}
	if update.CoverImage != nil {
		p.CoverImage = *update.CoverImage
	}
	p.UpdatedAt = time.Now().UTC()
	return copyPartner(p), nil
}

func (m *MemoryStore) AddFollower(_ context.Context, partnerID, userID primitive.ObjectID) (bool, error) {
	return m.updateFollowers(partnerID, userID, true)
}

func (m *MemoryStore) RemoveFollower(_ context.Context, partnerID, userID primitive.ObjectID) (bool, error) {
	return m.updateFollowers(partnerID, userID, false)
}

func (m *MemoryStore) updateFollowers(partnerID, userID primitive.ObjectID, add bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.partners[partnerID]
	if !ok {
		return false, ErrNotFound
	}
	return updateSet(&p.Followers, userID, add), nil
}

func (m *MemoryStore) CreateFeed(_ context.Context, feed *models.FoodFeed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if feed.ID.IsZero() {
		feed.ID = primitive.NewObjectID()
	}
	m.feeds = append(m.feeds, copyFeed(feed))
	return nil
}

func (m *MemoryStore) findFeed(id primitive.ObjectID) *models.FoodFeed {
	for _, f := range m.feeds {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func (m *MemoryStore) FindFeedByID(_ context.Context, id primitive.ObjectID) (*models.FoodFeed, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f := m.findFeed(id)
	if f == nil {
		return nil, ErrNotFound
	}
	return copyFeed(f), nil
}

func matches(f *models.FoodFeed, filter models.FeedFilter) bool {
	switch {
	case filter.Category != "" && f.Category != filter.Category,
		filter.Cuisine != "" && f.Cuisine != filter.Cuisine,
		filter.Difficulty != "" && f.Difficulty != filter.Difficulty,
		filter.IsVegetarian != nil && f.IsVegetarian != *filter.IsVegetarian,
		filter.Owner != nil && f.Owner != *filter.Owner:
		return false
	}
	return true
}

func (m *MemoryStore) ListFeeds(_ context.Context, filter models.FeedFilter, order models.FeedSort, skip, limit int64) ([]models.FoodFeed, error) {
	m.mu.RLock()
	var matched []*models.FoodFeed
	for _, f := range m.feeds {
		if matches(f, filter) {
			matched = append(matched, copyFeed(f))
		}
	}
	m.mu.RUnlock()

	switch order {
	case models.SortLatest:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	case models.SortPopular:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Likes > matched[j].Likes })
	case models.SortViews:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Views > matched[j].Views })
	}

	out := []models.FoodFeed{}
	for i := skip; i < int64(len(matched)) && (limit <= 0 || i < skip+limit); i++ {
		out = append(out, *matched[i])
	}
	return out, nil
}

func (m *MemoryStore) CountFeeds(_ context.Context, filter models.FeedFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, f := range m.feeds {
		if matches(f, filter) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) IncrementLikes(_ context.Context, id primitive.ObjectID, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.findFeed(id)
	if f == nil {
		return 0, ErrNotFound
	}
	if f.Likes+delta >= 0 {
		f.Likes += delta
	}
	return f.Likes, nil
}

func (m *MemoryStore) IncrementViews(_ context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.findFeed(id)
	if f == nil {
		return 0, ErrNotFound
	}
	f.Views++
	return f.Views, nil
}

func (m *MemoryStore) AddComment(_ context.Context, feedID primitive.ObjectID, comment models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.findFeed(feedID)
	if f == nil {
		return ErrNotFound
	}
	f.Comments = append(f.Comments, comment)
	return nil
}

func (m *MemoryStore) FeedStatsByOwner(_ context.Context, ownerID primitive.ObjectID) (models.FeedStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var stats models.FeedStats
	for _, f := range m.feeds {
		if f.Owner == ownerID {
			stats.TotalVideos++
			stats.TotalLikes += f.Likes
		}
	}
	return stats, nil
}

func (m *MemoryStore) RecentFeedsByOwner(ctx context.Context, ownerID primitive.ObjectID, n int64) ([]models.FoodFeed, error) {
	return m.ListFeeds(ctx, models.FeedFilter{Owner: &ownerID}, models.SortLatest, 0, n)
}
