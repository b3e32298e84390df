package repository

import (
	"errors"
	"fmt"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ToggleResult is the state after one engagement toggle.
type ToggleResult struct {
	Count  int64
	Active bool
}

// membership describes one (parent counter, membership table) pair.
type membership struct {
	parent    func() interface{}
	notFound  error
	foreignFK string
	counter   string
	newRow    func(entityID, userID uint) interface{}
}

var (
	questionLikes = membership{
		parent:    func() interface{} { return &model.Question{} },
		notFound:  util.ErrQuestionNotFound,
		foreignFK: "question_id",
		counter:   "likes_count",
		newRow: func(entityID, userID uint) interface{} {
			return &model.QuestionLike{QuestionID: entityID, UserID: userID}
		},
	}
	questionSaves = membership{
		parent:    func() interface{} { return &model.Question{} },
		notFound:  util.ErrQuestionNotFound,
		foreignFK: "question_id",
		counter:   "saves_count",
		newRow: func(entityID, userID uint) interface{} {
			return &model.QuestionSave{QuestionID: entityID, UserID: userID}
		},
	}
	contentLikes = membership{
		parent:    func() interface{} { return &model.Content{} },
		notFound:  util.ErrContentNotFound,
		foreignFK: "content_id",
		counter:   "likes_count",
		newRow: func(entityID, userID uint) interface{} {
			return &model.ContentLike{ContentID: entityID, UserID: userID}
		},
	}
)

// incrementExpr and decrementExpr keep counters as relative deltas so
// concurrent writers never overwrite each other. Decrements floor at zero.
func incrementExpr(column string) clause.Expr {
	return gorm.Expr(column + " + 1")
}

func decrementExpr(column string) clause.Expr {
	return gorm.Expr(fmt.Sprintf("CASE WHEN %[1]s > 0 THEN %[1]s - 1 ELSE 0 END", column))
}

// lockParent takes a row lock on the parent so two toggles by the same user
// on the same entity run one after the other.
func lockParent(tx *gorm.DB, m membership, entityID uint) error {
	var id uint
	err := tx.Model(m.parent()).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", entityID).
		Take(&id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m.notFound
	}
	return err
}

func readCounter(tx *gorm.DB, parent interface{}, column string, entityID uint) (int64, error) {
	var n int64
	err := tx.Model(parent).Select(column).Where("id = ?", entityID).Row().Scan(&n)
	return n, err
}

func adjustCounter(tx *gorm.DB, parent interface{}, column string, entityID uint, delta clause.Expr) error {
	return tx.Model(parent).Where("id = ?", entityID).UpdateColumn(column, delta).Error
}

// toggleMembership flips (entityID, userID) in the membership table and moves
// the parent counter by one in the same transaction. It is the only writer of
// membership rows.
func toggleMembership(tx *gorm.DB, m membership, entityID, userID uint) (*ToggleResult, error) {
	if err := lockParent(tx, m, entityID); err != nil {
		return nil, err
	}

	res := tx.Where(m.foreignFK+" = ? AND user_id = ?", entityID, userID).Delete(m.newRow(0, 0))
	if res.Error != nil {
		return nil, res.Error
	}

	result := &ToggleResult{}
	if res.RowsAffected > 0 {
		if err := adjustCounter(tx, m.parent(), m.counter, entityID, decrementExpr(m.counter)); err != nil {
			return nil, err
		}
	} else {
		if err := tx.Create(m.newRow(entityID, userID)).Error; err != nil {
			return nil, err
		}
		if err := adjustCounter(tx, m.parent(), m.counter, entityID, incrementExpr(m.counter)); err != nil {
			return nil, err
		}
		result.Active = true
	}

	count, err := readCounter(tx, m.parent(), m.counter, entityID)
	if err != nil {
		return nil, err
	}
	result.Count = count
	return result, nil
}

// removeMembership deletes the caller's row if present; it never inserts.
func removeMembership(tx *gorm.DB, m membership, entityID, userID uint) (*ToggleResult, error) {
	if err := lockParent(tx, m, entityID); err != nil {
		return nil, err
	}
	res := tx.Where(m.foreignFK+" = ? AND user_id = ?", entityID, userID).Delete(m.newRow(0, 0))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		if err := adjustCounter(tx, m.parent(), m.counter, entityID, decrementExpr(m.counter)); err != nil {
			return nil, err
		}
	}
	count, err := readCounter(tx, m.parent(), m.counter, entityID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Count: count}, nil
}

// hasMembership reports whether userID currently holds a row for entityID.
func hasMembership(db *gorm.DB, m membership, entityID, userID uint) (bool, error) {
	var count int64
	err := db.Model(m.newRow(0, 0)).
		Where(m.foreignFK+" = ? AND user_id = ?", entityID, userID).
		Count(&count).Error
	return count > 0, err
}

// memberEntityIDs returns the subset of ids userID holds a membership on.
func memberEntityIDs(db *gorm.DB, m membership, userID uint, ids []uint) (map[uint]bool, error) {
	set := make(map[uint]bool, len(ids))
	if len(ids) == 0 || userID == 0 {
		return set, nil
	}
	var found []uint
	err := db.Model(m.newRow(0, 0)).
		Where("user_id = ? AND "+m.foreignFK+" IN ?", userID, ids).
		Pluck(m.foreignFK, &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}

// withConflictRetry runs fn again once when it fails on a unique constraint.
// A second violation is reported as ErrMembershipConflict.
func withConflictRetry(fn func() error) error {
	err := fn()
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	err = fn()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrMembershipConflict
	}
	return err
}
