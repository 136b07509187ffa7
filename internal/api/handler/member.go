package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

type MemberHandler struct {
	memberService *service.MemberService
	maxUploadSize int64
}

func NewMemberHandler(memberService *service.MemberService, maxUploadSize int64) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		maxUploadSize: maxUploadSize,
	}
}

// Create 新建会员
// POST /api/v1/members
func (h *MemberHandler) Create(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.CreateMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.memberService.Create(gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, "Member created successfully", member)
}

// List 会员列表
// GET /api/v1/members
func (h *MemberHandler) List(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var req dto.MemberListRequest
	if !bindQuery(c, &req) {
		return
	}

	members, total, err := h.memberService.List(gymOwnerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessPage(c, total, req.Page, req.PageSize, members)
}

// ListActive 有效会员
// GET /api/v1/members/active
func (h *MemberHandler) ListActive(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}

	members, total, err := h.memberService.ListActive(gymOwnerID, q)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessPage(c, total, q.Page, q.PageSize, members)
}

// ListExpiring 即将到期的会员
// GET /api/v1/members/expiring?days=7
func (h *MemberHandler) ListExpiring(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	var q dto.ExpiringQuery
	if !bindQuery(c, &q) {
		return
	}

	members, err := h.memberService.ListExpiring(gymOwnerID, q.Days)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, members)
}

// Get 会员详情
// GET /api/v1/members/:id
func (h *MemberHandler) Get(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	member, err := h.memberService.Get(gymOwnerID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, member)
}

// Update 更新会员
// PUT /api/v1/members/:id
func (h *MemberHandler) Update(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.memberService.Update(gymOwnerID, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Member updated successfully", member)
}

// Delete 删除会员
// DELETE /api/v1/members/:id
func (h *MemberHandler) Delete(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.memberService.Delete(gymOwnerID, id); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Member deleted successfully", nil)
}

// BMI 会员 BMI
// GET /api/v1/members/:id/bmi
func (h *MemberHandler) BMI(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	bmi, err := h.memberService.BMI(gymOwnerID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, bmi)
}

// Attendance 会员签到历史
// GET /api/v1/members/:id/attendance
func (h *MemberHandler) Attendance(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}

	items, total, err := h.memberService.Attendance(gymOwnerID, id, q)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessPage(c, total, q.Page, q.PageSize, items)
}

// Payments 会员付款历史
// GET /api/v1/members/:id/payments
func (h *MemberHandler) Payments(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}

	items, total, err := h.memberService.Payments(gymOwnerID, id, q)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessPage(c, total, q.Page, q.PageSize, items)
}

// UploadPicture 上传会员头像
// POST /api/v1/members/:id/upload-picture
func (h *MemberHandler) UploadPicture(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	pic, err := readPicture(c, h.maxUploadSize)
	if err != nil {
		handleError(c, err)
		return
	}

	resp, err := h.memberService.UploadPicture(gymOwnerID, id, pic)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Profile picture updated successfully", resp)
}
