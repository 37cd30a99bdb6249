package handlers

import (
	"strconv"
	"time"

	"github.com/akramjonkamolov673/cyberarena/database"
	"github.com/akramjonkamolov673/cyberarena/dto"
	"github.com/akramjonkamolov673/cyberarena/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TestSetRequest struct {
	Title         string             `json:"title" validate:"required"`
	Description   string             `json:"description"`
	Difficulty    string             `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Questions     []dto.QuestionWire `json:"questions"`
	Tests         []dto.QuestionWire `json:"tests"`
	IsPrivate     bool               `json:"is_private"`
	StartTime     *time.Time         `json:"start_time"`
	EndTime       *time.Time         `json:"end_time"`
	AssignedUsers []string           `json:"assigned_users"`
	AllowedGroups []string           `json:"allowed_groups"`
}

func currentUser(c *fiber.Ctx) (uuid.UUID, string) {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	role, _ := claims["role"].(string)
	return userID, role
}

// visibleTestSets scopes a query to sets the user may see: public sets, own
// sets, directly assigned ones, and sets allowed for the user's group.
func visibleTestSets(userID uuid.UUID) *gorm.DB {
	var user models.User
	database.DB.Select("group_id").First(&user, "id = ?", userID)

	q := database.DB.Model(&models.TestSet{}).
		Where("is_private = false OR created_by_id = ? OR id IN (SELECT test_set_id FROM test_set_assignees WHERE user_id = ?)", userID, userID)
	if user.GroupID != nil {
		q = database.DB.Model(&models.TestSet{}).
			Where("is_private = false OR created_by_id = ? OR id IN (SELECT test_set_id FROM test_set_assignees WHERE user_id = ?) OR id IN (SELECT test_set_id FROM test_set_groups WHERE group_id = ?)",
				userID, userID, *user.GroupID)
	}
	return q
}

// testSetResponse hides correct answers from everyone but the author.
func testSetResponse(set models.TestSet, viewerID uuid.UUID, role string) fiber.Map {
	questions := make([]fiber.Map, len(set.Questions))
	showCorrect := role == models.RoleTeacher && set.CreatedByID == viewerID
	for i, q := range set.Questions {
		entry := fiber.Map{"text": q.Text, "options": q.Options}
		if showCorrect {
			entry["correct_answer"] = q.CorrectIndex
		}
		questions[i] = entry
	}
	return fiber.Map{
		"id":          set.ID,
		"title":       set.Title,
		"description": set.Description,
		"difficulty":  set.Difficulty,
		"questions":   questions,
		"is_private":  set.IsPrivate,
		"start_time":  set.StartTime,
		"end_time":    set.EndTime,
		"created_by":  set.CreatedByID,
		"created_at":  set.CreatedAt,
	}
}

func applyTestSetAudience(tx *gorm.DB, set *models.TestSet, userIDs, groupIDs []string) error {
	if userIDs != nil {
		var users []*models.User
		if err := tx.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return err
		}
		if err := tx.Model(set).Association("AssignedUsers").Replace(users); err != nil {
			return err
		}
	}
	if groupIDs != nil {
		var groups []*models.Group
		if err := tx.Where("id IN ?", groupIDs).Find(&groups).Error; err != nil {
			return err
		}
		if err := tx.Model(set).Association("AllowedGroups").Replace(groups); err != nil {
			return err
		}
	}
	return nil
}

func CreateTestSet(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var req TestSetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	questions, err := dto.QuestionsFromWire(req.Questions, req.Tests)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	set := models.TestSet{
		Title:       req.Title,
		Description: req.Description,
		Difficulty:  difficulty,
		Questions:   questions,
		IsPrivate:   req.IsPrivate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CreatedByID: userID,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&set).Error; err != nil {
			return err
		}
		return applyTestSetAudience(tx, &set, req.AssignedUsers, req.AllowedGroups)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create test set"})
	}

	return c.Status(fiber.StatusCreated).JSON(testSetResponse(set, userID, models.RoleTeacher))
}

func ListTestSets(c *fiber.Ctx) error {
	userID, role := currentUser(c)

	var sets []models.TestSet
	if err := visibleTestSets(userID).Order("created_at desc").Find(&sets).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch test sets"})
	}

	out := make([]fiber.Map, len(sets))
	for i, set := range sets {
		out[i] = testSetResponse(set, userID, role)
	}
	return c.JSON(out)
}

func GetTestSet(c *fiber.Ctx) error {
	userID, role := currentUser(c)
	setID := c.Params("testId")

	var set models.TestSet
	if err := visibleTestSets(userID).First(&set, "test_sets.id = ?", setID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Test set not found"})
	}
	return c.JSON(testSetResponse(set, userID, role))
}

func requireOwnTestSet(c *fiber.Ctx, setID string) (*models.TestSet, error) {
	userID, _ := currentUser(c)
	var set models.TestSet
	if err := database.DB.First(&set, "id = ?", setID).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Test set not found"})
	}
	if set.CreatedByID != userID {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the creator can modify this test set"})
	}
	return &set, nil
}

func UpdateTestSet(c *fiber.Ctx) error {
	set, err := requireOwnTestSet(c, c.Params("testId"))
	if set == nil {
		return err
	}
	userID, _ := currentUser(c)

	var req TestSetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.Title != "" {
		set.Title = req.Title
	}
	if req.Description != "" {
		set.Description = req.Description
	}
	if req.Difficulty != "" {
		set.Difficulty = req.Difficulty
	}
	if req.Questions != nil || req.Tests != nil {
		questions, err := dto.QuestionsFromWire(req.Questions, req.Tests)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		set.Questions = questions
	}
	set.IsPrivate = req.IsPrivate
	if req.StartTime != nil {
		set.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		set.EndTime = req.EndTime
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(set).Error; err != nil {
			return err
		}
		return applyTestSetAudience(tx, set, req.AssignedUsers, req.AllowedGroups)
	})
	if txErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update test set"})
	}

	return c.JSON(testSetResponse(*set, userID, models.RoleTeacher))
}

func DeleteTestSet(c *fiber.Ctx) error {
	set, err := requireOwnTestSet(c, c.Params("testId"))
	if set == nil {
		return err
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(set).Association("AssignedUsers").Clear(); err != nil {
			return err
		}
		if err := tx.Model(set).Association("AllowedGroups").Clear(); err != nil {
			return err
		}
		return tx.Delete(set).Error
	})
	if txErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete test set"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Questions are embedded in the set and addressed by index.

func ListTestSetQuestions(c *fiber.Ctx) error {
	userID, role := currentUser(c)

	var set models.TestSet
	if err := visibleTestSets(userID).First(&set, "test_sets.id = ?", c.Params("testId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Test set not found"})
	}
	return c.JSON(testSetResponse(set, userID, role)["questions"])
}

func AddTestSetQuestion(c *fiber.Ctx) error {
	set, err := requireOwnTestSet(c, c.Params("testId"))
	if set == nil {
		return err
	}

	var w dto.QuestionWire
	if err := c.BodyParser(&w); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	question, err := dto.QuestionFromWire(w)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	set.Questions = append(set.Questions, question)
	if err := database.DB.Save(set).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add question"})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.QuestionToWire(question))
}

func UpdateTestSetQuestion(c *fiber.Ctx) error {
	set, err := requireOwnTestSet(c, c.Params("testId"))
	if set == nil {
		return err
	}

	index, convErr := strconv.Atoi(c.Params("index"))
	if convErr != nil || index < 0 || index >= len(set.Questions) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}

	var w dto.QuestionWire
	if err := c.BodyParser(&w); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	question, err := dto.QuestionFromWire(w)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	set.Questions[index] = question
	if err := database.DB.Save(set).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update question"})
	}
	return c.JSON(dto.QuestionToWire(question))
}

func DeleteTestSetQuestion(c *fiber.Ctx) error {
	set, err := requireOwnTestSet(c, c.Params("testId"))
	if set == nil {
		return err
	}

	index, convErr := strconv.Atoi(c.Params("index"))
	if convErr != nil || index < 0 || index >= len(set.Questions) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}

	set.Questions = append(set.Questions[:index], set.Questions[index+1:]...)
	if err := database.DB.Save(set).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete question"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
