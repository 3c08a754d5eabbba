package models

type UserRole string
type AccountStatus string
type AuthMethod string
type DocumentStatus string
type DocumentLabel string
type ConnectionKind string
type ConnectionStatus string

const (
	UserRoleWorker     UserRole = "worker"
	UserRoleEmployer   UserRole = "employer"
	UserRoleAgency     UserRole = "agency"
	UserRoleAdmin      UserRole = "admin"
	UserRoleSuperAdmin UserRole = "superadmin"

	AccountStatusNotCompleted AccountStatus = "not completed"
	AccountStatusPending      AccountStatus = "pending"
	AccountStatusApproved     AccountStatus = "approved"
	AccountStatusRejected     AccountStatus = "rejected"

	AuthMethodLocal  AuthMethod = "local"
	AuthMethodGoogle AuthMethod = "google"

	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"

	ConnectionKindEmployment  ConnectionKind = "employment"
	ConnectionKindAffiliation ConnectionKind = "affiliation"

	ConnectionStatusPending   ConnectionStatus = "pending"
	ConnectionStatusAccepted  ConnectionStatus = "accepted"
	ConnectionStatusRejected  ConnectionStatus = "rejected"
	ConnectionStatusCancelled ConnectionStatus = "cancelled"
)

const (
	LabelPassport               DocumentLabel = "passport"
	LabelFacePhoto              DocumentLabel = "face_photo"
	LabelFullBodyPhoto          DocumentLabel = "full_body_photo"
	LabelMedicalCertificate     DocumentLabel = "medical_certificate"
	LabelPoliceClearance        DocumentLabel = "police_clearance"
	LabelBirthCertificate       DocumentLabel = "birth_certificate"
	LabelEducationalCertificate DocumentLabel = "educational_certificate"
	LabelReferenceLetter        DocumentLabel = "reference_letter"
	LabelSignature              DocumentLabel = "signature"
	LabelNationalID             DocumentLabel = "national_id"
	LabelTradeLicense           DocumentLabel = "trade_license"
	LabelContract               DocumentLabel = "contract"
	LabelOther                  DocumentLabel = "other"
)

// DocumentLabels - фиксированный словарь меток документов
var DocumentLabels = []DocumentLabel{
	LabelPassport,
	LabelFacePhoto,
	LabelFullBodyPhoto,
	LabelMedicalCertificate,
	LabelPoliceClearance,
	LabelBirthCertificate,
	LabelEducationalCertificate,
	LabelReferenceLetter,
	LabelSignature,
	LabelNationalID,
	LabelTradeLicense,
	LabelContract,
	LabelOther,
}

func (l DocumentLabel) IsValid() bool {
	for _, known := range DocumentLabels {
		if l == known {
			return true
		}
	}
	return false
}

// IsImmutable - документ с такой меткой нельзя заменить после создания
func (l DocumentLabel) IsImmutable() bool {
	return l == LabelSignature
}

func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusNotCompleted, AccountStatusPending, AccountStatusApproved, AccountStatusRejected:
		return true
	}
	return false
}

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleWorker, UserRoleEmployer, UserRoleAgency, UserRoleAdmin, UserRoleSuperAdmin:
		return true
	}
	return false
}

// HasProfile - роль владеет профилем и проходит через движок статусов
func (r UserRole) HasProfile() bool {
	return r == UserRoleWorker || r == UserRoleEmployer || r == UserRoleAgency
}

func (r UserRole) IsStaff() bool {
	return r == UserRoleAdmin || r == UserRoleSuperAdmin
}
