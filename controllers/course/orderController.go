package controllers

import (
	"fmt"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CreateOrder opens a payment-gateway order for a paid course
func CreateOrder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		CourseID uint `json:"course_id"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_published = ? AND is_deleted = ?", reqData.CourseID, true, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	if course.Pricing <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This course is free. Enroll directly!", nil)
	}

	var existingEnrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, reqData.CourseID, false).First(&existingEnrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	}

	receipt := fmt.Sprintf("order_%d", time.Now().UnixMilli())

	gatewayOrder, err := utils.CreatePaymentOrder(course.Pricing, receipt)
	if err != nil {
		log.Printf("[ORDER] gateway order creation failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create payment order!", nil)
	}

	order := courseModels.Order{
		UserID:         userID,
		CourseID:       reqData.CourseID,
		Amount:         course.Pricing,
		Currency:       gatewayOrder.Currency,
		Receipt:        receipt,
		GatewayOrderID: gatewayOrder.ID,
		Status:         courseModels.OrderCreated,
	}

	if err := database.Database.Db.Create(&order).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create order!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Order created successfully!", fiber.Map{
		"order":            order,
		"gateway_order_id": gatewayOrder.ID,
		"amount":           gatewayOrder.Amount,
		"currency":         gatewayOrder.Currency,
	})
}

// CaptureOrder verifies the gateway signature and enrolls the user on success
func CaptureOrder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		GatewayOrderID string `json:"gateway_order_id"`
		PaymentID      string `json:"payment_id"`
		Signature      string `json:"signature"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.GatewayOrderID == "" || reqData.PaymentID == "" || reqData.Signature == "" {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"payment": "gateway_order_id, payment_id and signature are required!",
		})
	}

	var order courseModels.Order
	if err := database.Database.Db.Where("gateway_order_id = ? AND user_id = ? AND is_deleted = ?", reqData.GatewayOrderID, userID, false).First(&order).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Order not found!", nil)
	}

	if order.Status == courseModels.OrderPaid {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Order already paid!", nil)
	}

	if !utils.VerifyPaymentSignature(reqData.GatewayOrderID, reqData.PaymentID, reqData.Signature) {
		order.Status = courseModels.OrderFailed
		database.Database.Db.Save(&order)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment verification failed!", nil)
	}

	order.PaymentID = reqData.PaymentID
	order.Status = courseModels.OrderPaid
	if err := database.Database.Db.Save(&order).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update order!", nil)
	}

	enrollment, err := enroll(order.UserID, order.CourseID, &order.ID)
	if err != nil {
		log.Printf("[ORDER] enrollment after capture failed for order %d: %v", order.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Payment captured but enrollment failed. Contact support!", nil)
	}

	var course courseModels.Course
	var user models.User
	if database.Database.Db.First(&course, order.CourseID).Error == nil &&
		database.Database.Db.First(&user, order.UserID).Error == nil {
		utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment captured and enrolled successfully!", fiber.Map{
		"order":      order,
		"enrollment": enrollment,
	})
}
