package dto

import "bikeblog/internal/models"

// UpdateRelationDTO carries a partial like/rate update. Both fields are
// optional; absent fields leave the stored value untouched.
type UpdateRelationDTO struct {
	Like *bool `json:"like,omitempty"`
	Rate *int  `json:"rate,omitempty" binding:"omitempty,min=1,max=5"`
}

type RelationResponse struct {
	PostID int64 `json:"post"`
	Like   bool  `json:"like"`
	Rate   *int  `json:"rate,omitempty"`
}

func FromModelToRelationResponse(relation *models.Relation) *RelationResponse {
	return &RelationResponse{
		PostID: relation.PostID,
		Like:   relation.Liked,
		Rate:   relation.Rating,
	}
}
