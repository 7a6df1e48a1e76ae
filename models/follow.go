package models

import "time"

type UserFollow struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	FollowerID uint      `json:"follower_id" gorm:"not null;uniqueIndex:idx_follow_pair"`
	Follower   *User     `json:"follower,omitempty" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	FolloweeID uint      `json:"followee_id" gorm:"not null;uniqueIndex:idx_follow_pair;index"`
	Followee   *User     `json:"followee,omitempty" gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `json:"created_at"`
}

type FollowOutcome string

const (
	Followed   FollowOutcome = "followed"
	Unfollowed FollowOutcome = "unfollowed"
)
