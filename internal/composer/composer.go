// Package composer holds one post-composition session: the selected target
// accounts, the shared content, the media attachment and the platform-specific
// extras, together with every validation rule that must pass before a single
// network call is made.
package composer

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"socialdeck/internal/models"
)

const (
	MediaKindImage = "image"
	MediaKindVideo = "video"

	MinCarouselItems = 2
	MaxCarouselItems = 10

	// Platform ceilings mirror the documented limits; the storage-tier
	// ceiling applies regardless of platform.
	MaxFacebookImageBytes  = 4 << 20
	MaxInstagramImageBytes = 8 << 20
	MaxInstagramVideoBytes = 100 << 20
	MaxStorageTierBytes    = 512 << 20
)

var (
	ErrNoAccounts      = errors.New("select at least one account before posting")
	ErrEmptyContent    = errors.New("post content cannot be empty")
	ErrCarouselTooFew  = errors.New("Carousel posts require at least 2 images")
	ErrCarouselTooMany = fmt.Errorf("carousel posts allow at most %d images", MaxCarouselItems)
	ErrCarouselVideo   = errors.New("carousel posts may contain images only")
	ErrYoutubeCarousel = errors.New("YouTube posts cannot use carousel mode")
	ErrYoutubeNoVideo  = errors.New("YouTube posts require a video file")
	ErrYoutubeNoTitle  = errors.New("YouTube posts require a title")
	ErrCtaURLRequired  = errors.New("this call-to-action type requires a URL")
	ErrInvalidCtaType  = errors.New("unknown call-to-action type")
)

// MediaFile describes one attached file, local or already resolved to a URL.
type MediaFile struct {
	Name string
	Kind string
	Size int64
	URL  string
}

type Draft struct {
	Content     string
	Title       string
	Visibility  string
	CtaType     string
	CtaURL      string
	ScheduledAt *time.Time

	accounts map[int64]string
	single   *MediaFile
	carousel []MediaFile
}

func New() *Draft {
	return &Draft{accounts: make(map[int64]string)}
}

// SelectAccount adds an account to the target set. Its platform joins the
// derived platform set automatically.
func (d *Draft) SelectAccount(id int64, platform string) {
	d.accounts[id] = platform
}

func (d *Draft) DeselectAccount(id int64) {
	delete(d.accounts, id)
}

// DeselectPlatform drops every selected account belonging to the platform,
// which removes the platform from the derived set.
func (d *Draft) DeselectPlatform(platform string) {
	for id, p := range d.accounts {
		if p == platform {
			delete(d.accounts, id)
		}
	}
}

// Platforms derives the selected-platform set from the selected accounts.
// There is no second mutable set to keep in sync.
func (d *Draft) Platforms() map[string]bool {
	platforms := make(map[string]bool, len(d.accounts))
	for _, p := range d.accounts {
		platforms[p] = true
	}
	return platforms
}

func (d *Draft) HasPlatform(platform string) bool {
	for _, p := range d.accounts {
		if p == platform {
			return true
		}
	}
	return false
}

func (d *Draft) AccountIDs() []int64 {
	ids := make([]int64, 0, len(d.accounts))
	for id := range d.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (d *Draft) AccountPlatform(id int64) (string, bool) {
	p, ok := d.accounts[id]
	return p, ok
}

// SetSingleMedia switches into single-media mode, discarding carousel state.
func (d *Draft) SetSingleMedia(f MediaFile) {
	d.single = &f
	d.carousel = nil
}

// AddCarouselItem switches into carousel mode, discarding single-media state.
func (d *Draft) AddCarouselItem(f MediaFile) {
	d.single = nil
	d.carousel = append(d.carousel, f)
}

func (d *Draft) ClearMedia() {
	d.single = nil
	d.carousel = nil
}

func (d *Draft) SingleMedia() *MediaFile { return d.single }

func (d *Draft) CarouselMedia() []MediaFile { return d.carousel }

func (d *Draft) IsCarousel() bool { return len(d.carousel) > 0 }

// Validate enforces every client-side invariant: account selection, content,
// carousel bounds, YouTube and GMB rules, and file-size ceilings. A draft
// that fails here never reaches the network.
func (d *Draft) Validate() error {
	if len(d.accounts) == 0 {
		return ErrNoAccounts
	}
	if d.Content == "" {
		return ErrEmptyContent
	}

	if d.IsCarousel() {
		if len(d.carousel) < MinCarouselItems {
			return ErrCarouselTooFew
		}
		if len(d.carousel) > MaxCarouselItems {
			return ErrCarouselTooMany
		}
		for _, f := range d.carousel {
			if f.Kind != MediaKindImage {
				return ErrCarouselVideo
			}
		}
	}

	if d.HasPlatform(models.PlatformYoutube) {
		if d.IsCarousel() {
			return ErrYoutubeCarousel
		}
		if d.single == nil || d.single.Kind != MediaKindVideo {
			return ErrYoutubeNoVideo
		}
		if d.Title == "" {
			return ErrYoutubeNoTitle
		}
	}

	if d.HasPlatform(models.PlatformGmb) && d.CtaType != "" {
		if !models.IsValidCtaType(d.CtaType) {
			return ErrInvalidCtaType
		}
		if d.CtaType != models.CtaCall && d.CtaURL == "" {
			return ErrCtaURLRequired
		}
	}

	for platform := range d.Platforms() {
		for _, f := range d.mediaFiles() {
			if err := CheckFileSize(platform, f.Kind, f.Size); err != nil {
				return err
			}
		}
	}

	return nil
}

func (d *Draft) mediaFiles() []MediaFile {
	if d.single != nil {
		return []MediaFile{*d.single}
	}
	return d.carousel
}

// CheckFileSize rejects files over the platform ceiling or the storage-tier
// ceiling before any upload happens. Messages name the limit and a way out.
func CheckFileSize(platform, kind string, size int64) error {
	if size > MaxStorageTierBytes {
		return fmt.Errorf("file exceeds the %dMB storage tier limit, upgrade the storage tier to upload it", MaxStorageTierBytes>>20)
	}

	switch platform {
	case models.PlatformFacebook:
		if kind == MediaKindImage && size > MaxFacebookImageBytes {
			return fmt.Errorf("image exceeds the %dMB Facebook limit, compress the file and try again", MaxFacebookImageBytes>>20)
		}
	case models.PlatformInstagram:
		if kind == MediaKindImage && size > MaxInstagramImageBytes {
			return fmt.Errorf("image exceeds the %dMB Instagram limit, compress the file and try again", MaxInstagramImageBytes>>20)
		}
		if kind == MediaKindVideo && size > MaxInstagramVideoBytes {
			return fmt.Errorf("video exceeds the %dMB Instagram limit, compress the file and try again", MaxInstagramVideoBytes>>20)
		}
	}
	return nil
}
