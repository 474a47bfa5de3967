package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"union-officer/backend/internal/dto"
	"union-officer/backend/internal/model"
	"union-officer/backend/internal/repository"
)

// Vietnamese display labels used in spreadsheets.
var (
	departmentLabels = map[string]string{
		model.DepartmentPropagandaEducation: "Ban Tuyên giáo",
		model.DepartmentOrganization:        "Ban Tổ chức",
		model.DepartmentPoliciesLaws:        "Ban Chính sách - Pháp luật",
		model.DepartmentOffice:              "Văn phòng",
		model.DepartmentWomenAffairs:        "Ban Nữ công",
	}
	positionLabels = map[string]string{
		model.PositionPresident:                "Chủ tịch",
		model.PositionVicePresident:            "Phó Chủ tịch",
		model.PositionExecutiveCommitteeMember: "Ủy viên Ban Chấp hành",
		model.PositionBoardMember:              "Ủy viên Ban Thường vụ",
		model.PositionSpecializedOfficer:       "Cán bộ chuyên trách",
	}
)

var ErrExportGenerateFail = errors.New("failed to generate spreadsheet")

// ────────────────────── Export ──────────────────────

// Export writes every officer matching the list filters to an .xlsx sheet.
// Returns the workbook and a suggested file name.
func (s *officerService) Export(ctx context.Context, req *dto.OfficerListRequest, caller Caller) (*bytes.Buffer, string, error) {
	filter, err := s.buildFilter(ctx, req, caller)
	if err != nil {
		return nil, "", err
	}

	users, _, err := s.repo.User.ListOfficers(ctx, filter, 0, 0)
	if err != nil {
		s.logger.Error("failed to list officers for export", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Cán bộ"
	idx, _ := f.NewSheet(sheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"STT", "Mã cán bộ", "Họ và tên", "Email", "Đơn vị", "Chức vụ", "Trạng thái", "Ngày vào", "Số điện thoại", "Nhãn"}
	widths := []float64{6, 14, 26, 30, 26, 24, 14, 12, 14, 30}
	for i, h := range headers {
		col := colName(i)
		f.SetCellValue(sheet, cell(col, 1), h)
		f.SetColWidth(sheet, col, col, widths[i])
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	f.SetCellStyle(sheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for i := range users {
		u := &users[i]
		row := i + 2
		values := []any{i + 1, "", "", u.Email, "", "", model.StatusLabel(u.IsActive), "", "", ""}
		if p := u.Profile; p != nil {
			values[1] = p.EmployeeID
			values[2] = p.FullName
			values[4] = labelOr(departmentLabels, p.Department)
			values[5] = labelOr(positionLabels, p.UnionPosition)
			values[7] = p.JoinDate.Format("02/01/2006")
			values[8] = derefString(p.PhoneNumber)
			values[9] = strings.Join(p.Tags, ", ")
		}
		for c, v := range values {
			f.SetCellValue(sheet, cell(colName(c), row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("failed to write spreadsheet", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("danh_sach_can_bo_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportBadFile     = errors.New("cannot read spreadsheet")
	ErrImportNoData      = errors.New("spreadsheet has no data rows (first row is the header)")
	ErrImportTooManyRows = fmt.Errorf("spreadsheet exceeds %d data rows", maxImportRows)
	ErrImportBadHeader   = errors.New("header must contain email, full name, employee ID, department and union position columns")
)

// ImportOfficerRow one parsed spreadsheet row. Row is the 1-based sheet row.
type ImportOfficerRow struct {
	Row           int
	Email         string
	Password      string
	FullName      string
	EmployeeID    string
	Department    string
	UnionPosition string
	PhoneNumber   string
}

// ParseImportFile reads the first sheet. Columns may appear in any order and
// accept either the English field name or the Vietnamese label.
func (s *officerService) ParseImportFile(reader io.Reader) ([]ImportOfficerRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportBadFile, err)
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportBadFile, err)
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	col := parseHeaderIndex(excelRows[0])
	for _, required := range []string{"email", "fullName", "employeeId", "department", "unionPosition"} {
		if col[required] < 0 {
			return nil, ErrImportBadHeader
		}
	}

	var rows []ImportOfficerRow
	for i := 1; i < len(excelRows); i++ {
		r := excelRows[i]
		get := func(key string) string {
			if idx := col[key]; idx >= 0 && idx < len(r) {
				return strings.TrimSpace(r[idx])
			}
			return ""
		}
		item := ImportOfficerRow{
			Row:           i + 1,
			Email:         normalizeEmail(get("email")),
			Password:      get("password"),
			FullName:      get("fullName"),
			EmployeeID:    get("employeeId"),
			Department:    resolveCode(departmentLabels, get("department")),
			UnionPosition: resolveCode(positionLabels, get("unionPosition")),
			PhoneNumber:   get("phoneNumber"),
		}
		if item.Email == "" && item.FullName == "" && item.EmployeeID == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// parseHeaderIndex maps field keys to column indexes, -1 when absent.
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"email":         -1,
		"password":      -1,
		"fullName":      -1,
		"employeeId":    -1,
		"department":    -1,
		"unionPosition": -1,
		"phoneNumber":   -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "email":
			idx["email"] = i
		case "password", "mật khẩu":
			idx["password"] = i
		case "fullname", "full_name", "họ và tên", "họ tên":
			idx["fullName"] = i
		case "employeeid", "employee_id", "mã cán bộ":
			idx["employeeId"] = i
		case "department", "đơn vị", "ban":
			idx["department"] = i
		case "unionposition", "union_position", "chức vụ":
			idx["unionPosition"] = i
		case "phonenumber", "phone", "số điện thoại":
			idx["phoneNumber"] = i
		}
	}
	return idx
}

// ────────────────────── Import ──────────────────────

// Import validates every row first, then creates all valid officers in one
// transaction. Any write failure rolls back the whole batch.
func (s *officerService) Import(ctx context.Context, rows []ImportOfficerRow) (*dto.ImportOfficerResponse, error) {
	resp := &dto.ImportOfficerResponse{Total: len(rows)}
	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportRowError{Row: row, Reason: reason})
	}

	type validatedRow struct {
		row          ImportOfficerRow
		hash         string
		tempPassword string
	}
	var valid []validatedRow
	seenEmail := make(map[string]bool)
	seenEmployee := make(map[string]bool)

	for _, row := range rows {
		switch {
		case row.Email == "" || row.FullName == "" || row.EmployeeID == "":
			fail(row.Row, "missing required field")
			continue
		case s.validate.Var(row.Email, "email") != nil:
			fail(row.Row, fmt.Sprintf("invalid email: %s", row.Email))
			continue
		case !model.IsValidDepartment(row.Department):
			fail(row.Row, fmt.Sprintf("unknown department: %s", row.Department))
			continue
		case !model.IsValidUnionPosition(row.UnionPosition):
			fail(row.Row, fmt.Sprintf("unknown union position: %s", row.UnionPosition))
			continue
		case row.PhoneNumber != "" && s.validate.Var(row.PhoneNumber, "vnphone") != nil:
			fail(row.Row, fmt.Sprintf("invalid phone number: %s", row.PhoneNumber))
			continue
		case row.Password != "" && len(row.Password) < 6:
			fail(row.Row, "password must be at least 6 characters")
			continue
		case seenEmail[row.Email]:
			fail(row.Row, fmt.Sprintf("duplicate email in file: %s", row.Email))
			continue
		case seenEmployee[row.EmployeeID]:
			fail(row.Row, fmt.Sprintf("duplicate employee ID in file: %s", row.EmployeeID))
			continue
		}

		if _, err := s.repo.User.GetByEmail(ctx, row.Email); err == nil {
			fail(row.Row, fmt.Sprintf("email already registered: %s", row.Email))
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := ensureEmployeeIDFree(ctx, s.repo, row.EmployeeID, ""); err != nil {
			if errors.Is(err, ErrEmployeeIDExists) {
				fail(row.Row, fmt.Sprintf("employee ID already in use: %s", row.EmployeeID))
				continue
			}
			return nil, err
		}

		password, tempPassword := row.Password, ""
		if password == "" {
			tmp, err := generateTempPassword(10)
			if err != nil {
				return nil, err
			}
			password, tempPassword = tmp, tmp
		}
		hash, err := hashPassword(password, s.cfg.Auth.BcryptCost)
		if err != nil {
			fail(row.Row, "failed to hash password")
			continue
		}

		seenEmail[row.Email] = true
		seenEmployee[row.EmployeeID] = true
		valid = append(valid, validatedRow{row: row, hash: hash, tempPassword: tempPassword})
	}

	if len(valid) == 0 {
		return resp, nil
	}

	created := make([]dto.ImportedOfficer, 0, len(valid))
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		created = created[:0]
		for _, vr := range valid {
			user := &model.User{
				Email:           vr.row.Email,
				PasswordHash:    vr.hash,
				Role:            model.RoleUser,
				IsActive:        true,
				IsEmailVerified: true,
			}
			if err := tx.User.Create(ctx, user); err != nil {
				return fmt.Errorf("row %d: %w", vr.row.Row, err)
			}
			profile := newProfile(user.ID, vr.row.EmployeeID, vr.row.FullName, vr.row.Department, vr.row.UnionPosition)
			if vr.row.PhoneNumber != "" {
				profile.PhoneNumber = ptr(vr.row.PhoneNumber)
			}
			if err := tx.Profile.Create(ctx, profile); err != nil {
				return fmt.Errorf("row %d: %w", vr.row.Row, err)
			}
			created = append(created, dto.ImportedOfficer{
				Row:          vr.row.Row,
				ID:           user.ID,
				Email:        user.Email,
				TempPassword: vr.tempPassword,
			})
		}
		return nil
	})
	if err != nil {
		s.logger.Error("officer import rolled back", zap.Error(err))
		return nil, err
	}

	resp.Success = len(valid)
	resp.Created = created
	s.stats.Invalidate(ctx)
	return resp, nil
}

// ── helpers ──

// resolveCode accepts either an enum code or its Vietnamese label.
func resolveCode(labels map[string]string, v string) string {
	if _, ok := labels[strings.ToUpper(v)]; ok {
		return strings.ToUpper(v)
	}
	for code, label := range labels {
		if strings.EqualFold(label, v) {
			return code
		}
	}
	return v
}

func labelOr(labels map[string]string, code string) string {
	if l, ok := labels[code]; ok {
		return l
	}
	return code
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// generateTempPassword returns a random password containing letters and digits.
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 4 {
		length = 8
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, length)
	out[0] = letters[int(buf[0])%len(letters)]
	out[1] = digits[int(buf[1])%len(digits)]
	for i := 2; i < length; i++ {
		out[i] = all[int(buf[i])%len(all)]
	}
	return string(out), nil
}
