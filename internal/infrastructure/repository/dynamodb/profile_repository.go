package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/riskibarqy/pawmatch/internal/domain/profile"
)

// UsernameIndex is the GSI keyed on usernameLower.
const UsernameIndex = "usernameLower-index"

// usernameGuardPrefix keys the items that reserve a lowercased username for
// one owner. Guard items carry no usernameLower, so the GSI never sees them.
const usernameGuardPrefix = "username#"

const conditionalCheckFailed = "ConditionalCheckFailed"

// API is the subset of the DynamoDB client the repository uses.
type API interface {
	GetItem(ctx context.Context, params *awsdynamodb.GetItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *awsdynamodb.QueryInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *awsdynamodb.TransactWriteItemsInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.TransactWriteItemsOutput, error)
}

type ProfileRepository struct {
	client API
	table  string
}

func NewProfileRepository(client API, table string) *ProfileRepository {
	return &ProfileRepository{client: client, table: table}
}

type profileItem struct {
	UserID        string           `dynamodbav:"userId"`
	FullName      string           `dynamodbav:"fullName"`
	Username      string           `dynamodbav:"username"`
	UsernameLower string           `dynamodbav:"usernameLower"`
	Bio           string           `dynamodbav:"bio"`
	Adopter       string           `dynamodbav:"adopter,omitempty"`
	Gender        string           `dynamodbav:"gender,omitempty"`
	Birthdate     string           `dynamodbav:"birthdate,omitempty"`
	Breed         string           `dynamodbav:"breed,omitempty"`
	AvatarURL     string           `dynamodbav:"avatarUrl,omitempty"`
	Preferences   *preferencesItem `dynamodbav:"preferences,omitempty"`
	CreatedAt     time.Time        `dynamodbav:"createdAt"`
	UpdatedAt     time.Time        `dynamodbav:"updatedAt"`
}

type preferencesItem struct {
	AgeMin            int      `dynamodbav:"ageMin"`
	AgeMax            int      `dynamodbav:"ageMax"`
	Distance          int      `dynamodbav:"distance"`
	GenderPreference  []string `dynamodbav:"genderPreference"`
	AdopterPreference string   `dynamodbav:"adopterPreference,omitempty"`
	BreedPreference   string   `dynamodbav:"breedPreference,omitempty"`
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (profile.Profile, bool, error) {
	out, err := r.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("get profile item user_id=%s: %w", userID, err)
	}
	if len(out.Item) == 0 {
		return profile.Profile{}, false, nil
	}

	return decodeProfile(out.Item)
}

func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (profile.Profile, bool, error) {
	out, err := r.client.Query(ctx, &awsdynamodb.QueryInput{
		TableName:              aws.String(r.table),
		IndexName:              aws.String(UsernameIndex),
		KeyConditionExpression: aws.String("usernameLower = :username"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":username": &types.AttributeValueMemberS{Value: strings.ToLower(strings.TrimSpace(username))},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("query profile by username: %w", err)
	}
	if len(out.Items) == 0 {
		return profile.Profile{}, false, nil
	}

	return decodeProfile(out.Items[0])
}

// Upsert writes the profile and its username guard in one transaction. The
// guard put fails when another user owns the name, which makes the claim
// atomic across concurrent writers.
func (r *ProfileRepository) Upsert(ctx context.Context, p profile.Profile) error {
	previous, found, err := r.GetByUserID(ctx, p.UserID)
	if err != nil {
		return err
	}

	item, err := attributevalue.MarshalMap(toItem(p))
	if err != nil {
		return fmt.Errorf("marshal profile item user_id=%s: %w", p.UserID, err)
	}

	owner := map[string]types.AttributeValue{
		":owner": &types.AttributeValueMemberS{Value: p.UserID},
	}
	newName := strings.ToLower(strings.TrimSpace(p.Username))
	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName: aws.String(r.table),
				Item: map[string]types.AttributeValue{
					"userId":  &types.AttributeValueMemberS{Value: usernameGuardPrefix + newName},
					"ownerId": &types.AttributeValueMemberS{Value: p.UserID},
				},
				ConditionExpression:       aws.String("attribute_not_exists(userId) OR ownerId = :owner"),
				ExpressionAttributeValues: owner,
			},
		},
		{
			Put: &types.Put{
				TableName: aws.String(r.table),
				Item:      item,
			},
		},
	}
	if oldName := strings.ToLower(strings.TrimSpace(previous.Username)); found && oldName != "" && oldName != newName {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(r.table),
				Key: map[string]types.AttributeValue{
					"userId": &types.AttributeValueMemberS{Value: usernameGuardPrefix + oldName},
				},
				ConditionExpression:       aws.String("attribute_not_exists(userId) OR ownerId = :owner"),
				ExpressionAttributeValues: owner,
			},
		})
	}

	_, err = r.client.TransactWriteItems(ctx, &awsdynamodb.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		return nil
	}

	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) && len(canceled.CancellationReasons) > 0 &&
		aws.ToString(canceled.CancellationReasons[0].Code) == conditionalCheckFailed {
		return profile.ErrUsernameTaken
	}
	return fmt.Errorf("write profile item user_id=%s: %w", p.UserID, err)
}

func decodeProfile(raw map[string]types.AttributeValue) (profile.Profile, bool, error) {
	var item profileItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return profile.Profile{}, false, fmt.Errorf("unmarshal profile item: %w", err)
	}

	return fromItem(item), true, nil
}

func toItem(p profile.Profile) profileItem {
	item := profileItem{
		UserID:        p.UserID,
		FullName:      p.FullName,
		Username:      p.Username,
		UsernameLower: strings.ToLower(p.Username),
		Bio:           p.Bio,
		Adopter:       string(p.Adopter),
		Gender:        string(p.Gender),
		Birthdate:     p.Birthdate,
		Breed:         p.Breed,
		AvatarURL:     p.AvatarURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Preferences != nil {
		genders := make([]string, 0, len(p.Preferences.GenderPreference))
		for _, g := range p.Preferences.GenderPreference {
			genders = append(genders, string(g))
		}
		item.Preferences = &preferencesItem{
			AgeMin:            p.Preferences.AgeRange.Min,
			AgeMax:            p.Preferences.AgeRange.Max,
			Distance:          p.Preferences.Distance,
			GenderPreference:  genders,
			AdopterPreference: string(p.Preferences.AdopterPreference),
			BreedPreference:   p.Preferences.BreedPreference,
		}
	}

	return item
}

func fromItem(item profileItem) profile.Profile {
	out := profile.Profile{
		UserID:    item.UserID,
		FullName:  item.FullName,
		Username:  item.Username,
		Bio:       item.Bio,
		Adopter:   profile.Role(item.Adopter),
		Gender:    profile.Gender(item.Gender),
		Birthdate: item.Birthdate,
		Breed:     item.Breed,
		AvatarURL: item.AvatarURL,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.Preferences != nil {
		genders := make([]profile.Gender, 0, len(item.Preferences.GenderPreference))
		for _, g := range item.Preferences.GenderPreference {
			genders = append(genders, profile.Gender(g))
		}
		out.Preferences = &profile.Preferences{
			AgeRange:          profile.AgeRange{Min: item.Preferences.AgeMin, Max: item.Preferences.AgeMax},
			Distance:          item.Preferences.Distance,
			GenderPreference:  genders,
			AdopterPreference: profile.Role(item.Preferences.AdopterPreference),
			BreedPreference:   item.Preferences.BreedPreference,
		}
	}

	return out
}
