// file: internal/repositories/user_repository.go
package repositories

import (
	"context"
	"fmt"
	"strings"

	"wishlink/internal/database"
	"wishlink/internal/models"

	"go.uber.org/zap"
)

// userRepository implements UserRepository
type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const userColumns = `
	u.id, u.email, u.password_hash, u.is_mail_verified,
	u.first_name, u.given_name, u.family_name, u.phone_no,
	u.address, u.location, u.about, u.link, u.picture, u.locale,
	u.is_institute, u.institute_reg_number, u.institute_details,
	u.latitude, u.longitude, u.created_at`

func scanUser(row interface{ Scan(...interface{}) error }, user *models.User) error {
	return row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.EmailVerified,
		&user.FirstName, &user.GivenName, &user.FamilyName, &user.PhoneNo,
		&user.Address, &user.Location, &user.About, &user.Link, &user.Picture, &user.Locale,
		&user.IsInstitute, &user.InstituteRegNumber, &user.InstituteDetails,
		&user.Latitude, &user.Longitude, &user.CreatedAt,
	)
}

// ===============================
// BASIC CRUD OPERATIONS
// ===============================

// Create inserts a new user and fills in the generated fields
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			email, password_hash, is_mail_verified,
			first_name, given_name, family_name, phone_no,
			address, location, about, link, picture, locale,
			is_institute, institute_reg_number, institute_details,
			latitude, longitude
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14, $15, $16, $17, $18
		) RETURNING id, created_at`

	err := r.QueryRowContext(
		ctx, query,
		user.Email, user.PasswordHash, user.EmailVerified,
		user.FirstName, user.GivenName, user.FamilyName, user.PhoneNo,
		user.Address, user.Location, user.About, user.Link, user.Picture, user.Locale,
		user.IsInstitute, user.InstituteRegNumber, user.InstituteDetails,
		user.Latitude, user.Longitude,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		r.GetLogger().Error("failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.GetLogger().Info("user created",
		zap.Int64("user_id", user.ID),
		zap.Bool("is_institute", user.IsInstitute),
	)

	return nil
}

// GetByID retrieves a user by ID, returning nil when the user does not exist
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE u.id = $1`, userColumns)

	var user models.User
	if err := scanUser(r.QueryRowContext(ctx, query, id), &user); err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email, returning nil when the user does not exist
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE LOWER(u.email) = LOWER($1)`, userColumns)

	var user models.User
	if err := scanUser(r.QueryRowContext(ctx, query, email), &user); err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// ExistsByEmail checks whether an account with the given email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// Update persists the mutable profile fields of an existing user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			email = $2, is_mail_verified = $3,
			first_name = $4, given_name = $5, family_name = $6, phone_no = $7,
			address = $8, location = $9, about = $10, link = $11, picture = $12, locale = $13,
			is_institute = $14, institute_reg_number = $15, institute_details = $16,
			latitude = $17, longitude = $18
		WHERE id = $1`

	result, err := r.ExecContext(
		ctx, query,
		user.ID, user.Email, user.EmailVerified,
		user.FirstName, user.GivenName, user.FamilyName, user.PhoneNo,
		user.Address, user.Location, user.About, user.Link, user.Picture, user.Locale,
		user.IsInstitute, user.InstituteRegNumber, user.InstituteDetails,
		user.Latitude, user.Longitude,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d not found", user.ID)
	}

	return nil
}

// GetProfiles loads public profiles for a set of user IDs in one query
func (r *userRepository) GetProfiles(ctx context.Context, ids []int64) (map[int64]*models.UserProfile, error) {
	profiles := make(map[int64]*models.UserProfile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, email, first_name, given_name, family_name, is_institute, location, picture
		FROM users
		WHERE id IN (%s)`, strings.Join(placeholders, ", "))

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load user profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.UserProfile
		if err := rows.Scan(
			&p.ID, &p.Email, &p.FirstName, &p.GivenName, &p.FamilyName,
			&p.IsInstitute, &p.Location, &p.Picture,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user profile: %w", err)
		}
		profiles[p.ID] = &p
	}

	return profiles, rows.Err()
}
