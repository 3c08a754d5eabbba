package auth

import "jobza_backend/internal/models"

// Разрешения по ролям
const (
	PermDocumentsJudge  = "documents:judge"
	PermUsersRead       = "users:read"
	PermUsersStatus     = "users:status"
	PermUsersDelete     = "users:delete"
	PermAdminsManage    = "admins:manage"
	PermWorkersBrowse   = "workers:browse"
	PermConnectionsSend = "connections:send"
)

var Permissions = map[models.UserRole][]string{
	models.UserRoleSuperAdmin: {
		PermDocumentsJudge,
		PermUsersRead,
		PermUsersStatus,
		PermUsersDelete,
		PermAdminsManage,
		PermWorkersBrowse,
	},
	models.UserRoleAdmin: {
		PermDocumentsJudge,
		PermUsersRead,
		PermUsersStatus,
		PermWorkersBrowse,
	},
	models.UserRoleEmployer: {
		PermWorkersBrowse,
		PermConnectionsSend,
	},
	models.UserRoleAgency: {
		PermWorkersBrowse,
		PermConnectionsSend,
	},
	models.UserRoleWorker: {
		PermConnectionsSend,
	},
}

func HasPermission(role models.UserRole, permission string) bool {
	for _, p := range Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// CanManage: администратор не может менять себя, а обычный admin не трогает других админов
func CanManage(actorRole models.UserRole, actorID string, target *models.User) bool {
	if target == nil || actorID == target.ID {
		return false
	}
	if target.Role.IsStaff() {
		return actorRole == models.UserRoleSuperAdmin && target.Role != models.UserRoleSuperAdmin
	}
	return actorRole.IsStaff()
}
