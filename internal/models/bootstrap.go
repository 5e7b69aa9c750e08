package models

import "gorm.io/gorm"

var defaultPermissions = []Permission{
	// Scheduling
	{Name: "View Own Schedule", Code: "schedule.view_own", Description: "View own work schedule", Category: "scheduling"},
	{Name: "View All Schedules", Code: "schedule.view_all", Description: "View all user schedules", Category: "scheduling"},
	{Name: "Create Schedule", Code: "schedule.create", Description: "Create/assign schedules", Category: "scheduling"},
	{Name: "Edit Schedule", Code: "schedule.edit", Description: "Edit schedules", Category: "scheduling"},
	{Name: "Delete Schedule", Code: "schedule.delete", Description: "Delete schedules", Category: "scheduling"},

	// Leave
	{Name: "Request Leave", Code: "leave.request", Description: "Submit leave requests", Category: "leave"},
	{Name: "View Own Leave", Code: "leave.view_own", Description: "View own leave balance and requests", Category: "leave"},
	{Name: "View All Leave", Code: "leave.view_all", Description: "View all leave requests", Category: "leave"},
	{Name: "Approve Leave", Code: "leave.approve", Description: "Approve/reject leave requests", Category: "leave"},
	{Name: "Manage Allocations", Code: "leave.allocate", Description: "Manage leave allocations", Category: "leave"},

	// User management
	{Name: "View Users", Code: "users.view", Description: "View user list", Category: "admin"},
	{Name: "Create Users", Code: "users.create", Description: "Create new users", Category: "admin"},
	{Name: "Edit Users", Code: "users.edit", Description: "Edit user details", Category: "admin"},
	{Name: "Delete Users", Code: "users.delete", Description: "Delete users", Category: "admin"},
	{Name: "Manage Roles", Code: "roles.manage", Description: "Create and manage roles", Category: "admin"},

	// Tasks
	{Name: "View Own Tasks", Code: "tasks.view_own", Description: "View tasks assigned to self", Category: "tasks"},
	{Name: "View All Tasks", Code: "tasks.view_all", Description: "View all tasks", Category: "tasks"},
	{Name: "Create Tasks", Code: "tasks.create", Description: "Create and assign tasks", Category: "tasks"},
	{Name: "Edit Tasks", Code: "tasks.edit", Description: "Edit tasks", Category: "tasks"},
	{Name: "Delete Tasks", Code: "tasks.delete", Description: "Delete tasks", Category: "tasks"},

	// Board
	{Name: "View Board", Code: "board.view", Description: "View public board", Category: "board"},
	{Name: "Create Posts", Code: "board.create", Description: "Create board posts", Category: "board"},
	{Name: "Edit Posts", Code: "board.edit", Description: "Edit board posts", Category: "board"},
	{Name: "Delete Posts", Code: "board.delete", Description: "Delete board posts", Category: "board"},
	{Name: "Pin Posts", Code: "board.pin", Description: "Pin/unpin board posts", Category: "board"},

	// Management
	{Name: "Manage Restricted Days", Code: "management.restricted", Description: "Manage restricted days", Category: "management"},
	{Name: "Manage Requirements", Code: "management.requirements", Description: "Set monthly requirements", Category: "management"},
	{Name: "View Reports", Code: "management.reports", Description: "View system reports", Category: "management"},
	{Name: "System Settings", Code: "management.settings", Description: "Manage system settings", Category: "management"},
}

var managerPermissionCodes = []string{
	"schedule.view_own", "schedule.view_all", "schedule.create", "schedule.edit",
	"leave.request", "leave.view_own", "leave.view_all", "leave.approve",
	"users.view", "tasks.view_own", "tasks.view_all", "tasks.create", "tasks.edit",
	"board.view", "board.create", "board.edit", "board.pin",
	"management.restricted", "management.requirements", "management.reports",
}

var userPermissionCodes = []string{
	"schedule.view_own", "leave.request", "leave.view_own",
	"tasks.view_own", "board.view",
}

var defaultLeaveTypes = []LeaveType{
	{Name: "Annual Leave", Description: "Paid annual vacation days", Paid: true, Color: "#10B981", RequiresApproval: true, Active: true},
	{Name: "Sick Leave", Description: "Paid sick days", Paid: true, Color: "#EF4444", RequiresApproval: true, Active: true},
	{Name: "Personal Leave", Description: "Personal time off", Paid: true, Color: "#8B5CF6", RequiresApproval: true, Active: true},
	{Name: "Unpaid Leave", Description: "Unpaid time off", Paid: false, Color: "#6B7280", RequiresApproval: true, Active: true},
	{Name: "Bereavement", Description: "Compassionate leave", Paid: true, Color: "#1F2937", RequiresApproval: true, Active: true},
	{Name: "Maternity/Paternity", Description: "Parental leave", Paid: true, Color: "#EC4899", RequiresApproval: true, Active: true},
}

// InitDefaults seeds the permissions, the three system roles and the default
// leave types. It only acts on an empty database, as soon as any permission
// exists the seed is skipped.
func InitDefaults(db *gorm.DB) error {
	var count int64
	err := db.Model(&Permission{}).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		permissions := make(map[string]Permission, len(defaultPermissions))
		for _, permission := range defaultPermissions {
			err := tx.Create(&permission).Error
			if err != nil {
				return err
			}

			permissions[permission.Code] = permission
		}

		admin := Role{Name: "Administrator", Description: "Full system access", System: true}
		for _, permission := range defaultPermissions {
			admin.Permissions = append(admin.Permissions, permissions[permission.Code])
		}

		err := tx.Create(&admin).Error
		if err != nil {
			return err
		}

		manager := Role{Name: "Manager", Description: "Manage schedules, leave, and tasks", System: true}
		for _, code := range managerPermissionCodes {
			manager.Permissions = append(manager.Permissions, permissions[code])
		}

		err = tx.Create(&manager).Error
		if err != nil {
			return err
		}

		user := Role{Name: "User", Description: "Basic user access", System: true}
		for _, code := range userPermissionCodes {
			user.Permissions = append(user.Permissions, permissions[code])
		}

		err = tx.Create(&user).Error
		if err != nil {
			return err
		}

		for _, leaveType := range defaultLeaveTypes {
			err := tx.Create(&leaveType).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}
