package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"union-officer/backend/internal/dto"
	"union-officer/backend/internal/model"
	"union-officer/backend/internal/repository"
)

// Sample values used to fill demo profiles.
var (
	seedEducation = []string{
		"Cử nhân Luật - Đại học Quốc gia Hà Nội",
		"Thạc sĩ Quản trị Kinh doanh - Đại học Kinh tế Quốc dân",
		"Cử nhân Kinh tế - Đại học Thương mại",
		"Kỹ sư Công nghệ Thông tin - Đại học Bách khoa Hà Nội",
		"Cử nhân Xã hội học - Đại học Khoa học Xã hội và Nhân văn",
	}
	seedExperience = []string{
		"5 năm công tác tại phòng Tổ chức - Hành chính",
		"8 năm làm cán bộ chuyên trách công đoàn cơ sở",
		"3 năm phụ trách công tác tuyên giáo",
		"10 năm kinh nghiệm quản lý nhân sự",
		"6 năm công tác chính sách pháp luật",
	}
	seedSkills = []string{
		"Kỹ năng giao tiếp, thuyết trình",
		"Tin học văn phòng, quản lý dữ liệu",
		"Đàm phán, thương lượng tập thể",
		"Tổ chức sự kiện, phong trào",
		"Tư vấn pháp luật lao động",
	}
	seedAchievements = []string{
		"Bằng khen của Tổng Liên đoàn Lao động Việt Nam",
		"Chiến sĩ thi đua cơ sở",
		"Giấy khen hoàn thành xuất sắc nhiệm vụ",
		"Lao động tiên tiến nhiều năm liền",
		"Bằng khen của Công đoàn ngành",
	}
	seedUnits = []string{
		"Công đoàn cơ sở Khối Văn phòng",
		"Công đoàn cơ sở Nhà máy số 1",
		"Công đoàn cơ sở Chi nhánh Hà Nội",
		"Công đoàn cơ sở Chi nhánh TP. Hồ Chí Minh",
		"Công đoàn cơ sở Trung tâm Đào tạo",
	}
	seedAddresses = []string{
		"Số 12 Trần Hưng Đạo, Hoàn Kiếm, Hà Nội",
		"Số 45 Nguyễn Trãi, Thanh Xuân, Hà Nội",
		"Số 88 Lê Lợi, Quận 1, TP. Hồ Chí Minh",
		"Số 7 Bạch Đằng, Hải Châu, Đà Nẵng",
		"Số 21 Lạch Tray, Ngô Quyền, Hải Phòng",
	}
)

const (
	seedHistoryOldUnit = "Ban cũ A"
	seedHistoryNote    = "Điều chuyển công tác định kỳ"
)

// ────────────────────── Seed ──────────────────────

// Seed fills empty demo fields on every officer profile and gives officers
// without history one unit-change entry. Already populated fields are kept.
func (s *officerService) Seed(ctx context.Context) (*dto.SeedResponse, error) {
	users, err := s.repo.User.ListWithProfileByRole(ctx, model.RoleUser)
	if err != nil {
		s.logger.Error("failed to list officers for seeding", zap.Error(err))
		return nil, err
	}

	r := s.newRand()
	now := time.Now()
	updated := 0
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for i := range users {
			u := &users[i]
			if u.Profile == nil {
				continue
			}

			if fillDemoProfile(u.Profile, u.Email, r) {
				if u.Profile.NationalID != nil {
					if err := ensureNationalIDFree(ctx, tx, *u.Profile.NationalID, u.Profile.ID); err != nil {
						u.Profile.NationalID = nil
					}
				}
				if err := tx.Profile.Update(ctx, u.Profile); err != nil {
					return fmt.Errorf("seed profile %s: %w", u.ID, err)
				}
			}

			n, err := tx.History.CountByOfficer(ctx, u.ID)
			if err != nil {
				return err
			}
			if n == 0 {
				entry := newHistory(u.ID, model.ChangeTypeUnit, seedHistoryOldUnit, u.Profile.Department, seedHistoryNote)
				entry.ChangeDate = now.AddDate(0, 0, -r.IntN(365))
				if err := tx.History.Create(ctx, entry); err != nil {
					return fmt.Errorf("seed history %s: %w", u.ID, err)
				}
			}
			updated++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("seeding failed", zap.Error(err))
		return nil, err
	}

	s.stats.Invalidate(ctx)
	s.logger.Info("seeded officer data", zap.Int("officers", updated))
	return &dto.SeedResponse{Updated: updated}, nil
}

// fillDemoProfile populates empty fields and reports whether p changed.
// Tags are filled when empty; the remaining demo fields only when
// education is empty.
func fillDemoProfile(p *model.OfficerProfile, email string, r *rand.Rand) bool {
	changed := false

	if len(p.Tags) == 0 {
		p.Tags = pickTags(r)
		changed = true
	}

	if p.Education != nil && *p.Education != "" {
		return changed
	}

	p.Education = ptr(pick(r, seedEducation))
	p.Experience = ptr(pick(r, seedExperience))
	p.Skills = ptr(pick(r, seedSkills))
	p.Achievements = ptr(pick(r, seedAchievements))
	p.UnitName = ptr(pick(r, seedUnits))
	p.Address = ptr(pick(r, seedAddresses))

	switch x := r.Float64(); {
	case x > 0.9:
		p.WorkStatus = model.WorkStatusRetired
	case x > 0.85:
		p.WorkStatus = model.WorkStatusTransferred
	default:
		p.WorkStatus = model.WorkStatusActive
	}
	if r.IntN(2) == 0 {
		p.Gender = model.GenderMale
	} else {
		p.Gender = model.GenderFemale
	}

	dob := randomDate(r, time.Date(1975, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(1995, 12, 31, 0, 0, 0, 0, time.UTC))
	p.DateOfBirth = &dob
	p.JoinDate = randomDate(r, time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))
	p.NationalID = ptr("0" + randomDigits(r, 11))
	p.PhoneNumber = ptr("09" + randomDigits(r, 8))
	p.PersonalEmail = ptr(email)
	p.IsPartyMember = r.Float64() > 0.4
	return true
}

// pickTags returns one or two distinct tags.
func pickTags(r *rand.Rand) pq.StringArray {
	perm := r.Perm(len(model.OfficerTags))
	n := 1 + r.IntN(2)
	tags := make(pq.StringArray, 0, n)
	for _, idx := range perm[:n] {
		tags = append(tags, model.OfficerTags[idx])
	}
	return tags
}

func pick(r *rand.Rand, list []string) string {
	return list[r.IntN(len(list))]
}

func randomDate(r *rand.Rand, from, to time.Time) time.Time {
	days := int(to.Sub(from).Hours() / 24)
	return from.AddDate(0, 0, r.IntN(days+1))
}

func randomDigits(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + r.IntN(10))
	}
	return string(b)
}

func ptr[T any](v T) *T { return &v }
