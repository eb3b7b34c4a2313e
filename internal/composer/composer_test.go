package composer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"socialdeck/internal/models"
)

func TestSelectingAccountAddsPlatform(t *testing.T) {
	d := New()
	d.SelectAccount(1, models.PlatformInstagram)

	assert.True(t, d.Platforms()[models.PlatformInstagram])

	d.SelectAccount(2, models.PlatformFacebook)
	assert.True(t, d.Platforms()[models.PlatformFacebook])
	assert.Len(t, d.Platforms(), 2)
}

func TestDeselectingPlatformRemovesItsAccounts(t *testing.T) {
	d := New()
	d.SelectAccount(1, models.PlatformInstagram)
	d.SelectAccount(2, models.PlatformInstagram)
	d.SelectAccount(3, models.PlatformFacebook)

	d.DeselectPlatform(models.PlatformInstagram)

	assert.Equal(t, []int64{3}, d.AccountIDs())
	assert.False(t, d.Platforms()[models.PlatformInstagram])
	assert.True(t, d.Platforms()[models.PlatformFacebook])
}

func TestDeselectingLastAccountRemovesPlatform(t *testing.T) {
	d := New()
	d.SelectAccount(1, models.PlatformInstagram)
	d.DeselectAccount(1)

	assert.Empty(t, d.Platforms())
}

func TestValidateRejectsZeroAccounts(t *testing.T) {
	d := New()
	d.Content = "hello"

	assert.ErrorIs(t, d.Validate(), ErrNoAccounts)
}

func TestValidateRejectsEmptyContent(t *testing.T) {
	d := New()
	d.SelectAccount(1, models.PlatformFacebook)

	assert.ErrorIs(t, d.Validate(), ErrEmptyContent)
}

func TestCarouselRequiresTwoImages(t *testing.T) {
	d := New()
	d.SelectAccount(1, models.PlatformInstagram)
	d.Content = "carousel time"
	d.AddCarouselItem(MediaFile{Name: "one.jpg", Kind: MediaKindImage, Size: 1 << 20})

	err := d.Validate()
	assert.ErrorIs(t, err, ErrCarouselTooFew)
	assert.Equal(t, "Carousel posts require at least 2 images", err.Error())

	d.AddCarouselItem(MediaFile{Name: "two.jpg", Kind: MediaKindImage, Size: 1 << 20})
	assert.NoError(t, d.Validate())
}

func TestCarouselRejectsVideos(t *testing.T) {
	d := New()
	d.SelectAccount(1, models.PlatformInstagram)
	d.Content = "carousel"
	d.AddCarouselItem(MediaFile{Name: "one.jpg", Kind: MediaKindImage, Size: 1 << 20})
	d.AddCarouselItem(MediaFile{Name: "clip.mp4", Kind: MediaKindVideo, Size: 1 << 20})

	assert.ErrorIs(t, d.Validate(), ErrCarouselVideo)
}

func TestSingleMediaClearsCarouselAndBack(t *testing.T) {
	d := New()
	d.AddCarouselItem(MediaFile{Name: "one.jpg", Kind: MediaKindImage})
	d.AddCarouselItem(MediaFile{Name: "two.jpg", Kind: MediaKindImage})

	d.SetSingleMedia(MediaFile{Name: "solo.jpg", Kind: MediaKindImage})
	assert.Nil(t, d.CarouselMedia())
	assert.NotNil(t, d.SingleMedia())

	d.AddCarouselItem(MediaFile{Name: "three.jpg", Kind: MediaKindImage})
	assert.Nil(t, d.SingleMedia())
	assert.Len(t, d.CarouselMedia(), 1)
}

func TestYoutubeForcesSingleVideoWithTitle(t *testing.T) {
	d := New()
	d.SelectAccount(1, models.PlatformYoutube)
	d.Content = "new video"

	d.AddCarouselItem(MediaFile{Name: "one.jpg", Kind: MediaKindImage})
	d.AddCarouselItem(MediaFile{Name: "two.jpg", Kind: MediaKindImage})
	assert.ErrorIs(t, d.Validate(), ErrYoutubeCarousel)

	d.SetSingleMedia(MediaFile{Name: "pic.jpg", Kind: MediaKindImage, Size: 1 << 20})
	assert.ErrorIs(t, d.Validate(), ErrYoutubeNoVideo)

	d.SetSingleMedia(MediaFile{Name: "clip.mp4", Kind: MediaKindVideo, Size: 10 << 20})
	assert.ErrorIs(t, d.Validate(), ErrYoutubeNoTitle)

	d.Title = "My upload"
	assert.NoError(t, d.Validate())
}

func TestGmbCtaRequiresURLUnlessCall(t *testing.T) {
	d := New()
	d.SelectAccount(1, models.PlatformGmb)
	d.Content = "local offer"
	d.CtaType = models.CtaLearnMore

	assert.ErrorIs(t, d.Validate(), ErrCtaURLRequired)

	d.CtaType = models.CtaCall
	assert.NoError(t, d.Validate())

	d.CtaType = "VISIT"
	assert.ErrorIs(t, d.Validate(), ErrInvalidCtaType)
}

func TestFileSizeCeilings(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		kind     string
		size     int64
		wantErr  string
	}{
		{"facebook image at limit", models.PlatformFacebook, MediaKindImage, MaxFacebookImageBytes, ""},
		{"facebook image over limit", models.PlatformFacebook, MediaKindImage, MaxFacebookImageBytes + 1, "4MB Facebook limit"},
		{"facebook video has no platform ceiling", models.PlatformFacebook, MediaKindVideo, 200 << 20, ""},
		{"instagram image over limit", models.PlatformInstagram, MediaKindImage, MaxInstagramImageBytes + 1, "8MB Instagram limit"},
		{"instagram video at limit", models.PlatformInstagram, MediaKindVideo, MaxInstagramVideoBytes, ""},
		{"instagram video over limit", models.PlatformInstagram, MediaKindVideo, MaxInstagramVideoBytes + 1, "100MB Instagram limit"},
		{"storage tier ceiling", models.PlatformYoutube, MediaKindVideo, MaxStorageTierBytes + 1, "512MB storage tier limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFileSize(tt.platform, tt.kind, tt.size)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "message %q should name the limit %q", err, tt.wantErr)
		})
	}
}

func TestValidateChecksCeilingsForEverySelectedPlatform(t *testing.T) {
	d := New()
	d.SelectAccount(1, models.PlatformInstagram)
	d.SelectAccount(2, models.PlatformFacebook)
	d.Content = "cross post"
	// Between the Facebook 4MB and Instagram 8MB image ceilings.
	d.SetSingleMedia(MediaFile{Name: "big.jpg", Kind: MediaKindImage, Size: 6 << 20})

	err := d.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Facebook")

	d.DeselectPlatform(models.PlatformFacebook)
	assert.NoError(t, d.Validate())
}
