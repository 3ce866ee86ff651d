package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// ModelName is the name reported in validation messages.
const ModelName = "FavYoutubeVideo"

// Video is a favorite YouTube video, the only record type of the service.
//
// Field names on the wire and in the store are the camelCase names clients
// already use (title, youtuberName, ...). The id is exposed as "_id".
type Video struct {
	// ID is assigned by the store on insert and never changes afterwards.
	ID primitive.ObjectID `json:"_id" bson:"_id,omitempty"`

	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`

	// ThumbnailURL is optional. An empty value is never stored, the field is
	// simply absent.
	ThumbnailURL string `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`

	Watched      bool   `json:"watched" bson:"watched"`
	YoutuberName string `json:"youtuberName" bson:"youtuberName"`
}

// VideoPatch carries a partial update. Nil fields are left untouched.
type VideoPatch struct {
	Title        *string
	Description  *string
	ThumbnailURL *string
	Watched      *bool
	YoutuberName *string
}

// IsEmpty reports whether the patch changes nothing.
func (p VideoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.ThumbnailURL == nil &&
		p.Watched == nil && p.YoutuberName == nil
}

// Apply copies every present patch field onto v.
func (v *Video) Apply(p VideoPatch) {
	if p.Title != nil {
		v.Title = *p.Title
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	if p.ThumbnailURL != nil {
		v.ThumbnailURL = *p.ThumbnailURL
	}
	if p.Watched != nil {
		v.Watched = *p.Watched
	}
	if p.YoutuberName != nil {
		v.YoutuberName = *p.YoutuberName
	}
}

// Fields returns the present patch fields keyed by their stored name.
func (p VideoPatch) Fields() map[string]any {
	fields := make(map[string]any, 5)
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.ThumbnailURL != nil {
		fields["thumbnailUrl"] = *p.ThumbnailURL
	}
	if p.Watched != nil {
		fields["watched"] = *p.Watched
	}
	if p.YoutuberName != nil {
		fields["youtuberName"] = *p.YoutuberName
	}
	return fields
}

// IsValidID reports whether s is a syntactically valid record id
// (24 hexadecimal characters).
func IsValidID(s string) bool {
	return primitive.IsValidObjectID(s)
}

// ParseID decodes a hex record id.
func ParseID(s string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(s)
}

// NewID returns a fresh record id.
func NewID() primitive.ObjectID {
	return primitive.NewObjectID()
}
