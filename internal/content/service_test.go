package content

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/videotube/backend/internal/integrity"
	"github.com/videotube/backend/internal/media"
	"github.com/videotube/backend/internal/models"
	"github.com/videotube/backend/internal/repositories"
)

// In-memory fakes mirroring the uniqueness and visibility behavior of the
// SQL repositories.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
	watch map[string]map[string]time.Time
}

func newMemUserRepo(users ...models.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]models.User), watch: make(map[string]map[string]time.Time)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repositories.ErrConflict
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) FindByLogin(_ context.Context, login string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == login || user.Email == login {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (r *memUserRepo) UpdateProfile(_ context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) SetRefreshTokenHash(_ context.Context, userID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	user.RefreshTokenHash = hash
	r.users[userID] = user
	return nil
}

func (r *memUserRepo) SwapRefreshTokenHash(_ context.Context, userID, current, next string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok || user.RefreshTokenHash != current {
		return false, nil
	}
	user.RefreshTokenHash = next
	r.users[userID] = user
	return true, nil
}

func (r *memUserRepo) ClearRefreshTokenHash(_ context.Context, userID string) error {
	return r.SetRefreshTokenHash(context.Background(), userID, "")
}

func (r *memUserRepo) RecordWatch(_ context.Context, entry models.WatchEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.watch[entry.UserID] == nil {
		r.watch[entry.UserID] = make(map[string]time.Time)
	}
	r.watch[entry.UserID][entry.VideoID] = entry.WatchedAt
	return nil
}

func (r *memUserRepo) ListWatchHistory(_ context.Context, userID string) ([]models.Video, error) {
	return nil, nil
}

type memVideoRepo struct {
	mu         sync.Mutex
	videos     map[string]models.Video
	lastFilter repositories.VideoListFilter
}

func newMemVideoRepo(videos ...models.Video) *memVideoRepo {
	r := &memVideoRepo{videos: make(map[string]models.Video)}
	for _, v := range videos {
		r.videos[v.ID] = v
	}
	return r
}

func (r *memVideoRepo) Create(_ context.Context, video models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.videos[video.ID] = video
	return nil
}

func (r *memVideoRepo) FindByID(_ context.Context, id string) (models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	video, ok := r.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (r *memVideoRepo) Update(_ context.Context, video models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[video.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.videos[video.ID] = video
	return nil
}

func (r *memVideoRepo) SetPublished(_ context.Context, id string, published bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	video, ok := r.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.Published = published
	r.videos[id] = video
	return nil
}

func (r *memVideoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.videos, id)
	return nil
}

func (r *memVideoRepo) List(_ context.Context, filter repositories.VideoListFilter) ([]models.Video, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter

	switch filter.SortColumn {
	case "createdAt", "views", "duration", "title":
	default:
		return nil, 0, fmt.Errorf("unsupported sort column %q", filter.SortColumn)
	}

	var matched []models.Video
	for _, v := range r.videos {
		if !v.Published && v.OwnerID != filter.ViewerID {
			continue
		}
		if filter.OwnerID != "" && v.OwnerID != filter.OwnerID {
			continue
		}
		matched = append(matched, v)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *memVideoRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Video
	for _, v := range r.videos {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memVideoRepo) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	video, ok := r.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.Views++
	r.videos[id] = video
	return nil
}

func (r *memVideoRepo) Stats(_ context.Context, ownerID string) (repositories.ChannelStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stats repositories.ChannelStats
	for _, v := range r.videos {
		if v.OwnerID == ownerID {
			stats.TotalVideos++
			stats.TotalViews += v.Views
		}
	}
	return stats, nil
}

type memCommentRepo struct {
	mu       sync.Mutex
	comments map[string]models.Comment
}

func newMemCommentRepo(comments ...models.Comment) *memCommentRepo {
	r := &memCommentRepo{comments: make(map[string]models.Comment)}
	for _, c := range comments {
		r.comments[c.ID] = c
	}
	return r
}

func (r *memCommentRepo) Create(_ context.Context, comment models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[comment.ID] = comment
	return nil
}

func (r *memCommentRepo) FindByID(_ context.Context, id string) (models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return comment, nil
}

func (r *memCommentRepo) UpdateContent(_ context.Context, id, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok {
		return repositories.ErrNotFound
	}
	comment.Content = content
	r.comments[id] = comment
	return nil
}

func (r *memCommentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *memCommentRepo) ListForVideo(_ context.Context, videoID, viewerID string, limit, offset int) ([]models.CommentView, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []models.CommentView
	for _, c := range r.comments {
		if c.VideoID == videoID {
			matched = append(matched, models.CommentView{Comment: c})
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *memCommentRepo) DeleteByVideo(_ context.Context, videoID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var purged int64
	for id, c := range r.comments {
		if c.VideoID == videoID {
			delete(r.comments, id)
			purged++
		}
	}
	return purged, nil
}

type likeKey struct {
	userID    string
	kind      models.SubjectKind
	subjectID string
}

type memLikeRepo struct {
	mu       sync.Mutex
	likes    map[likeKey]models.Like
	comments *memCommentRepo
}

func newMemLikeRepo(comments *memCommentRepo) *memLikeRepo {
	return &memLikeRepo{likes: make(map[likeKey]models.Like), comments: comments}
}

func (r *memLikeRepo) Insert(_ context.Context, like models.Like) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey{userID: like.UserID, kind: like.SubjectKind, subjectID: like.SubjectID}
	if _, exists := r.likes[key]; exists {
		return false, nil
	}
	r.likes[key] = like
	return true, nil
}

func (r *memLikeRepo) Delete(_ context.Context, userID string, kind models.SubjectKind, subjectID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey{userID: userID, kind: kind, subjectID: subjectID}
	if _, exists := r.likes[key]; !exists {
		return false, nil
	}
	delete(r.likes, key)
	return true, nil
}

func (r *memLikeRepo) DeleteBySubject(_ context.Context, kind models.SubjectKind, subjectID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var purged int64
	for key := range r.likes {
		if key.kind == kind && key.subjectID == subjectID {
			delete(r.likes, key)
			purged++
		}
	}
	return purged, nil
}

func (r *memLikeRepo) DeleteForVideoComments(ctx context.Context, videoID string) (int64, error) {
	if r.comments == nil {
		return 0, nil
	}
	r.comments.mu.Lock()
	var commentIDs []string
	for id, c := range r.comments.comments {
		if c.VideoID == videoID {
			commentIDs = append(commentIDs, id)
		}
	}
	r.comments.mu.Unlock()

	var purged int64
	for _, id := range commentIDs {
		n, err := r.DeleteBySubject(ctx, models.SubjectComment, id)
		if err != nil {
			return purged, err
		}
		purged += n
	}
	return purged, nil
}

func (r *memLikeRepo) ListLikedVideos(_ context.Context, userID string) ([]models.Video, error) {
	return nil, nil
}

func (r *memLikeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.likes)
}

type memSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[string]models.Subscription
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{subs: make(map[string]models.Subscription)}
}

func subKey(subscriberID, channelID string) string {
	return subscriberID + "/" + channelID
}

func (r *memSubscriptionRepo) Insert(_ context.Context, sub models.Subscription) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub.SubscriberID == sub.ChannelID {
		return false, repositories.ErrConflict
	}
	key := subKey(sub.SubscriberID, sub.ChannelID)
	if _, exists := r.subs[key]; exists {
		return false, nil
	}
	r.subs[key] = sub
	return true, nil
}

func (r *memSubscriptionRepo) Delete(_ context.Context, subscriberID, channelID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := subKey(subscriberID, channelID)
	if _, exists := r.subs[key]; !exists {
		return false, nil
	}
	delete(r.subs, key)
	return true, nil
}

func (r *memSubscriptionRepo) ListSubscribers(_ context.Context, channelID string) ([]models.User, error) {
	return nil, nil
}

func (r *memSubscriptionRepo) ListSubscribedChannels(_ context.Context, subscriberID string) ([]models.User, error) {
	return nil, nil
}

type memTweetRepo struct {
	mu     sync.Mutex
	tweets map[string]models.Tweet
}

func newMemTweetRepo(tweets ...models.Tweet) *memTweetRepo {
	r := &memTweetRepo{tweets: make(map[string]models.Tweet)}
	for _, tw := range tweets {
		r.tweets[tw.ID] = tw
	}
	return r
}

func (r *memTweetRepo) Create(_ context.Context, tweet models.Tweet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tweets[tweet.ID] = tweet
	return nil
}

func (r *memTweetRepo) FindByID(_ context.Context, id string) (models.Tweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tweet, ok := r.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	return tweet, nil
}

func (r *memTweetRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Tweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Tweet
	for _, tw := range r.tweets {
		if tw.OwnerID == ownerID {
			out = append(out, tw)
		}
	}
	return out, nil
}

func (r *memTweetRepo) UpdateContent(_ context.Context, id, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tweet, ok := r.tweets[id]
	if !ok {
		return repositories.ErrNotFound
	}
	tweet.Content = content
	r.tweets[id] = tweet
	return nil
}

func (r *memTweetRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tweets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.tweets, id)
	return nil
}

type memPlaylistRepo struct {
	mu        sync.Mutex
	playlists map[string]models.Playlist
	members   map[string][]string
	videos    *memVideoRepo
}

func newMemPlaylistRepo(videos *memVideoRepo, playlists ...models.Playlist) *memPlaylistRepo {
	r := &memPlaylistRepo{
		playlists: make(map[string]models.Playlist),
		members:   make(map[string][]string),
		videos:    videos,
	}
	for _, p := range playlists {
		r.playlists[p.ID] = p
		r.members[p.ID] = append([]string(nil), p.VideoIDs...)
	}
	return r
}

func (r *memPlaylistRepo) Create(_ context.Context, playlist models.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playlists[playlist.ID] = playlist
	return nil
}

func (r *memPlaylistRepo) FindByID(_ context.Context, id string) (models.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	playlist, ok := r.playlists[id]
	if !ok {
		return models.Playlist{}, repositories.ErrNotFound
	}
	playlist.VideoIDs = append([]string(nil), r.members[id]...)
	return playlist, nil
}

func (r *memPlaylistRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Playlist
	for id, p := range r.playlists {
		if p.OwnerID == ownerID {
			p.VideoIDs = append([]string(nil), r.members[id]...)
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPlaylistRepo) UpdateMeta(_ context.Context, id, name, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	playlist, ok := r.playlists[id]
	if !ok {
		return repositories.ErrNotFound
	}
	playlist.Name = name
	playlist.Description = description
	r.playlists[id] = playlist
	return nil
}

func (r *memPlaylistRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.playlists[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.playlists, id)
	delete(r.members, id)
	return nil
}

func (r *memPlaylistRepo) AddVideo(_ context.Context, playlistID, videoID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.members[playlistID] {
		if existing == videoID {
			return false, nil
		}
	}
	r.members[playlistID] = append(r.members[playlistID], videoID)
	return true, nil
}

func (r *memPlaylistRepo) RemoveVideo(_ context.Context, playlistID, videoID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := r.members[playlistID]
	for i, existing := range members {
		if existing == videoID {
			r.members[playlistID] = append(members[:i], members[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memPlaylistRepo) RemoveVideoEverywhere(_ context.Context, videoID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pulled int64
	for id, members := range r.members {
		for i, existing := range members {
			if existing == videoID {
				r.members[id] = append(members[:i], members[i+1:]...)
				pulled++
				break
			}
		}
	}
	return pulled, nil
}

func (r *memPlaylistRepo) ListVideos(ctx context.Context, playlistID string) ([]models.Video, error) {
	r.mu.Lock()
	members := append([]string(nil), r.members[playlistID]...)
	r.mu.Unlock()

	var out []models.Video
	for _, id := range members {
		video, err := r.videos.FindByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, video)
	}
	return out, nil
}

// nopUploader satisfies media.Uploader for tests that never touch files.
type nopUploader struct {
	uploads int
}

func (u *nopUploader) Upload(_ context.Context, localPath string) (media.Upload, error) {
	u.uploads++
	return media.Upload{URL: "https://cdn.example.com/" + localPath, Duration: 90 * time.Second}, nil
}

// syncHealer runs sweeps inline so tests can assert their effect.
type syncHealer struct {
	coordinator *integrity.Coordinator
	enqueued    []string
}

func (h *syncHealer) Enqueue(ctx context.Context, videoID string) error {
	h.enqueued = append(h.enqueued, videoID)
	if h.coordinator != nil {
		h.coordinator.HealVideoOrphans(ctx, videoID)
	}
	return nil
}

type fixture struct {
	service   *Service
	users     *memUserRepo
	videos    *memVideoRepo
	comments  *memCommentRepo
	likes     *memLikeRepo
	subs      *memSubscriptionRepo
	tweets    *memTweetRepo
	playlists *memPlaylistRepo
	healer    *syncHealer
	uploader  *nopUploader
}

func newFixture(users []models.User, videos []models.Video) *fixture {
	userRepo := newMemUserRepo(users...)
	videoRepo := newMemVideoRepo(videos...)
	commentRepo := newMemCommentRepo()
	likeRepo := newMemLikeRepo(commentRepo)
	subRepo := newMemSubscriptionRepo()
	tweetRepo := newMemTweetRepo()
	playlistRepo := newMemPlaylistRepo(videoRepo)
	uploader := &nopUploader{}

	coordinator := integrity.NewCoordinator(commentRepo, likeRepo, playlistRepo, videoRepo)
	healer := &syncHealer{coordinator: coordinator}

	service := NewService(userRepo, videoRepo, commentRepo, likeRepo, subRepo, tweetRepo, playlistRepo,
		coordinator, healer, uploader)

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	service.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	seq := 0
	service.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}

	return &fixture{
		service:   service,
		users:     userRepo,
		videos:    videoRepo,
		comments:  commentRepo,
		likes:     likeRepo,
		subs:      subRepo,
		tweets:    tweetRepo,
		playlists: playlistRepo,
		healer:    healer,
		uploader:  uploader,
	}
}
