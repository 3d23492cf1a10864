package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"healthassist/internal/models"
)

const userColumns = `id, name, email, password_hash, age, gender, timezone,
	COALESCE(weight, 0), COALESCE(height, 0), COALESCE(blood_group, ''),
	COALESCE(blood_sugar, 0), COALESCE(systolic_bp, 0), COALESCE(diastolic_bp, 0),
	COALESCE(cholesterol, 0), COALESCE(chronic_illnesses, ''), COALESCE(past_surgeries, ''),
	COALESCE(genetic_diseases, ''), COALESCE(last_checkup_date, ''),
	COALESCE(phone_number, ''), COALESCE(emergency_number, ''), COALESCE(address, ''),
	COALESCE(photo_filename, ''), COALESCE(health_insurance_provider, ''),
	COALESCE(health_policy_id, ''), COALESCE(health_group_number, ''),
	COALESCE(life_insurance_provider, ''), COALESCE(life_policy_id, ''),
	notifications_enabled, is_admin, is_blocked, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Age, &u.Gender, &u.Timezone,
		&u.WeightKg, &u.HeightCm, &u.BloodGroup,
		&u.BloodSugar, &u.SystolicBP, &u.DiastolicBP,
		&u.Cholesterol, &u.ChronicIllnesses, &u.PastSurgeries,
		&u.GeneticDiseases, &u.LastCheckupDate,
		&u.PhoneNumber, &u.EmergencyNumber, &u.Address,
		&u.PhotoFilename, &u.HealthInsuranceProvider,
		&u.HealthPolicyID, &u.HealthGroupNumber,
		&u.LifeInsuranceProvider, &u.LifePolicyID,
		&u.NotificationsEnabled, &u.IsAdmin, &u.IsBlocked, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser registers a new account and returns its id.
func (db *DB) CreateUser(name, email, passwordHash string, age int, gender string) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO users (name, email, password_hash, age, gender) VALUES (?, ?, ?, ?, ?)`,
		name, strings.ToLower(strings.TrimSpace(email)), passwordHash, age, gender,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return res.LastInsertId()
}

// GetUserByEmail looks up an account for login.
func (db *DB) GetUserByEmail(email string) (*models.User, error) {
	row := db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)))
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// GetUser returns the account with the given id.
func (db *DB) GetUser(id int64) (*models.User, error) {
	row := db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// UpdateUserProfile stores the editable profile fields.
func (db *DB) UpdateUserProfile(u *models.User) error {
	_, err := db.Exec(`UPDATE users SET
			name = ?, age = ?, gender = ?, timezone = ?,
			weight = ?, height = ?, blood_group = ?,
			blood_sugar = ?, systolic_bp = ?, diastolic_bp = ?, cholesterol = ?,
			chronic_illnesses = ?, past_surgeries = ?, genetic_diseases = ?, last_checkup_date = ?,
			phone_number = ?, emergency_number = ?, address = ?,
			health_insurance_provider = ?, health_policy_id = ?, health_group_number = ?,
			life_insurance_provider = ?, life_policy_id = ?,
			notifications_enabled = ?
		WHERE id = ?`,
		u.Name, u.Age, u.Gender, u.Timezone,
		u.WeightKg, u.HeightCm, u.BloodGroup,
		u.BloodSugar, u.SystolicBP, u.DiastolicBP, u.Cholesterol,
		u.ChronicIllnesses, u.PastSurgeries, u.GeneticDiseases, u.LastCheckupDate,
		u.PhoneNumber, u.EmergencyNumber, u.Address,
		u.HealthInsuranceProvider, u.HealthPolicyID, u.HealthGroupNumber,
		u.LifeInsuranceProvider, u.LifePolicyID,
		u.NotificationsEnabled,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// UpdateUserPhoto stores the uploaded profile photo filename.
func (db *DB) UpdateUserPhoto(userID int64, filename string) error {
	_, err := db.Exec(`UPDATE users SET photo_filename = ? WHERE id = ?`, filename, userID)
	if err != nil {
		return fmt.Errorf("failed to update photo: %w", err)
	}
	return nil
}

// UpdateUserPassword replaces the stored password hash.
func (db *DB) UpdateUserPassword(userID int64, passwordHash string) error {
	_, err := db.Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// SetUserBlocked flips the admin block flag.
func (db *DB) SetUserBlocked(userID int64, blocked bool) error {
	res, err := db.Exec(`UPDATE users SET is_blocked = ? WHERE id = ?`, blocked, userID)
	if err != nil {
		return fmt.Errorf("failed to update block flag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetUserAdmin flips the admin role flag.
func (db *DB) SetUserAdmin(userID int64, admin bool) error {
	res, err := db.Exec(`UPDATE users SET is_admin = ? WHERE id = ?`, admin, userID)
	if err != nil {
		return fmt.Errorf("failed to update admin flag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes the account; dependent rows cascade.
func (db *DB) DeleteUser(userID int64) error {
	res, err := db.Exec(`DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsers returns every account, newest first. Admin use only.
func (db *DB) ListUsers() ([]*models.User, error) {
	rows, err := db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListNotifiableUsers returns users with notifications enabled and a stored
// push subscription. The reminder scheduler calls this once per tick.
func (db *DB) ListNotifiableUsers() ([]*models.User, error) {
	rows, err := db.Query(`SELECT ` + userColumns + ` FROM users u
		WHERE u.notifications_enabled = 1
		  AND u.is_blocked = 0
		  AND EXISTS (SELECT 1 FROM push_subscriptions s WHERE s.user_id = u.id)`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifiable users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
