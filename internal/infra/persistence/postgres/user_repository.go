// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"userhub/internal/domain/entity"
	"userhub/internal/domain/repository"
	"userhub/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements the repository.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a repository.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByEmail retrieves a single user by email, with their roles.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Roles").
		Where("email = ?", email).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// FindByID retrieves a single user by their unique ID, with their roles.
func (repo *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Roles").
		First(&userM, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// ExistsByEmail reports whether any user holds the given email.
func (repo *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to count users by email")
	}

	return count > 0, nil
}

// Save persists the user: Create when the ID is unset, update otherwise.
// The unique email constraint surfaces as repository.ErrDuplicateEmail.
func (repo *userRepository) Save(ctx context.Context, user *entity.User) (*entity.User, error) {
	userM := fromUserDomain(user)
	db := repo.db.WithContext(ctx)

	if userM.ID == 0 {
		if err := db.Create(userM).Error; err != nil {
			if isUniqueConstraintViolation(err) {
				return nil, repository.ErrDuplicateEmail
			}

			return nil, errors.Wrap(err, "failed to create user")
		}

		return toUserDomain(userM), nil
	}

	// Update the scalar columns only; the roles association is reconciled
	// explicitly so GORM never re-inserts already-persisted user_roles rows.
	if err := db.Omit(clause.Associations).Save(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return nil, repository.ErrDuplicateEmail
		}

		return nil, errors.Wrap(err, "failed to update user")
	}

	if err := repo.syncRoles(db, userM); err != nil {
		return nil, err
	}

	return toUserDomain(userM), nil
}

// syncRoles brings the user_roles rows in line with the entity: stale roles
// are removed and missing ones inserted. The insert ignores conflicts on the
// (user_id, role) primary key, so roles the user already holds are kept as-is.
func (repo *userRepository) syncRoles(db *gorm.DB, userM *model.UserModel) error {
	roleNames := make([]string, len(userM.Roles))
	for i, role := range userM.Roles {
		roleNames[i] = role.Role
	}

	stale := db.Where("user_id = ?", userM.ID)
	if len(roleNames) > 0 {
		stale = stale.Where("role NOT IN ?", roleNames)
	}
	if err := stale.Delete(&model.UserRoleModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to remove stale user roles")
	}

	if len(userM.Roles) == 0 {
		return nil
	}

	rows := make([]model.UserRoleModel, len(userM.Roles))
	for i, role := range userM.Roles {
		rows[i] = model.UserRoleModel{UserID: userM.ID, Role: role.Role}
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return errors.Wrap(err, "failed to persist user roles")
	}

	return nil
}

// FindAll retrieves every user, ordered by ID, with their roles.
func (repo *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	var userModels []*model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Roles").
		Order("id").
		Find(&userModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	users := make([]*entity.User, len(userModels))
	for i, userM := range userModels {
		users[i] = toUserDomain(userM)
	}

	return users, nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	roleNames := make([]string, len(data.Roles))
	for i, role := range data.Roles {
		roleNames[i] = role.Role
	}

	return &entity.User{
		ID:        data.ID,
		Email:     data.Email,
		Password:  data.Password,
		Name:      data.Name,
		CreatedAt: data.CreatedAt,
		Roles:     entity.RolesFromStrings(roleNames),
		Enabled:   data.Enabled,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	roles := make([]model.UserRoleModel, len(data.Roles))
	for i, role := range data.Roles {
		roles[i] = model.UserRoleModel{UserID: data.ID, Role: role.String()}
	}

	return &model.UserModel{
		ID:        data.ID,
		Email:     data.Email,
		Password:  data.Password,
		Name:      data.Name,
		CreatedAt: data.CreatedAt,
		Enabled:   data.Enabled,
		Roles:     roles,
	}
}
