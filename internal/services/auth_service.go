package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kodekamper/api/internal/config"
	"github.com/kodekamper/api/internal/db"
	"github.com/kodekamper/api/internal/httperr"
	"github.com/kodekamper/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// resetTokenTTL bounds how long a password-reset token stays usable.
const resetTokenTTL = 10 * time.Minute

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateJWT generates a signed token carrying the user ID and role.
func GenerateJWT(userID string, role string) (string, error) {
	expire, err := time.ParseDuration(config.Getenv("JWT_EXPIRE", "720h"))
	if err != nil {
		expire = 720 * time.Hour
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(expire).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Getenv("JWT_SECRET", "")))
}

// RegisterUser creates a user account and returns it with a fresh token.
// Self-registration may only pick the user or publisher role.
func RegisterUser(ctx context.Context, user models.User) (models.User, string, error) {
	if err := user.Validate(); err != nil {
		return models.User{}, "", err
	}
	return insertUser(ctx, user)
}

// insertUser hashes the password and stores the account. Validation is the
// caller's responsibility since registration and admin creation allow
// different roles.
func insertUser(ctx context.Context, user models.User) (models.User, string, error) {
	collection := db.GetCollection(db.Users)

	var existing models.User
	err := collection.FindOne(ctx, bson.M{"email": user.Email}).Decode(&existing)
	if err == nil {
		return models.User{}, "", httperr.BadRequest("email already in use")
	}

	hashed, err := HashPassword(user.Password)
	if err != nil {
		return models.User{}, "", err
	}

	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.ID = primitive.NewObjectID()
	user.Password = hashed
	user.CreatedAt = time.Now()

	if _, err := collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, "", httperr.BadRequest("email already in use")
		}
		return models.User{}, "", err
	}

	token, err := GenerateJWT(user.ID.Hex(), user.Role)
	return user, token, err
}

// LoginUser authenticates a user and returns a token plus the account.
func LoginUser(ctx context.Context, email, password string) (string, models.User, error) {
	if email == "" || password == "" {
		return "", models.User{}, httperr.BadRequest("please provide an email and password")
	}

	collection := db.GetCollection(db.Users)

	var user models.User
	if err := collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return "", models.User{}, httperr.Unauthorized("invalid credentials")
	}

	if !VerifyPassword(password, user.Password) {
		return "", models.User{}, httperr.Unauthorized("invalid credentials")
	}

	token, err := GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		return "", models.User{}, err
	}

	return token, user, nil
}

// GetUser loads an account by hex id.
func GetUser(ctx context.Context, userID string) (models.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, httperr.BadRequest("invalid user id %s", userID)
	}

	var user models.User
	err = db.GetCollection(db.Users).FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		return models.User{}, httperr.FromMongo(err, "user", userID)
	}
	return user, nil
}

// UpdateDetails changes the caller's name and email.
func UpdateDetails(ctx context.Context, userID, name, email string) (models.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return models.User{}, httperr.BadRequest("invalid user id %s", userID)
	}

	fields := bson.M{}
	if name != "" {
		fields["name"] = name
	}
	if email != "" {
		fields["email"] = email
	}
	if len(fields) == 0 {
		return models.User{}, httperr.BadRequest("nothing to update")
	}

	var user models.User
	err = db.GetCollection(db.Users).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": fields},
		findOneAndUpdateAfter(),
	).Decode(&user)
	if err != nil {
		return models.User{}, httperr.FromMongo(err, "user", userID)
	}
	return user, nil
}

// UpdatePassword rotates the caller's password after checking the current one.
func UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (string, error) {
	user, err := GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if !VerifyPassword(currentPassword, user.Password) {
		return "", httperr.Unauthorized("password is incorrect")
	}
	if len(newPassword) < 6 {
		return "", httperr.BadRequest("password must be at least 6 characters")
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return "", err
	}

	_, err = db.GetCollection(db.Users).UpdateByID(ctx, user.ID, bson.M{
		"$set": bson.M{"password": hashed},
	})
	if err != nil {
		return "", err
	}

	return GenerateJWT(user.ID.Hex(), user.Role)
}

// ForgotPassword issues a reset token for the account. Only the sha256 of the
// token is stored; the raw value goes back to the caller for delivery.
func ForgotPassword(ctx context.Context, email string) (string, error) {
	collection := db.GetCollection(db.Users)

	var user models.User
	if err := collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", httperr.NotFound("there is no user with that email")
		}
		return "", err
	}

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	resetToken := hex.EncodeToString(raw)

	_, err := collection.UpdateByID(ctx, user.ID, bson.M{
		"$set": bson.M{
			"reset_password_token":  hashResetToken(resetToken),
			"reset_password_expire": time.Now().Add(resetTokenTTL),
		},
	})
	if err != nil {
		return "", err
	}

	return resetToken, nil
}

// ResetPassword consumes a reset token and sets a new password, returning a
// fresh login token.
func ResetPassword(ctx context.Context, resetToken, newPassword string) (string, error) {
	if len(newPassword) < 6 {
		return "", httperr.BadRequest("password must be at least 6 characters")
	}

	collection := db.GetCollection(db.Users)

	var user models.User
	err := collection.FindOne(ctx, bson.M{
		"reset_password_token":  hashResetToken(resetToken),
		"reset_password_expire": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", httperr.BadRequest("invalid token")
		}
		return "", err
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return "", err
	}

	_, err = collection.UpdateByID(ctx, user.ID, bson.M{
		"$set":   bson.M{"password": hashed},
		"$unset": bson.M{"reset_password_token": "", "reset_password_expire": ""},
	})
	if err != nil {
		return "", err
	}

	return GenerateJWT(user.ID.Hex(), user.Role)
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", sum)
}
