package i18n

type translation struct {
	en, bm string
}

var translations = map[string]translation{
	"appName":          {en: "Child-Care System", bm: "Sistem Penjagaan Kanak-Kanak"},
	"enterApp":         {en: "Enter App", bm: "Masuk Aplikasi"},
	"howItWorks":       {en: "How it Works", bm: "Cara Ia Berfungsi"},
	"admin":            {en: "Admin", bm: "Pentadbir"},
	"teacher":          {en: "Teacher", bm: "Guru"},
	"parent":           {en: "Parent", bm: "Ibubapa"},
	"login":            {en: "Login", bm: "Log Masuk"},
	"logout":           {en: "Logout", bm: "Log Keluar"},
	"email":            {en: "Email", bm: "E-mel"},
	"password":         {en: "Password", bm: "Kata Laluan"},
	"fullName":         {en: "Full Name", bm: "Nama Penuh"},
	"phone":            {en: "Phone", bm: "Telefon"},
	"signIn":           {en: "Sign In", bm: "Daftar Masuk"},
	"signUp":           {en: "Sign Up", bm: "Daftar"},
	"createAccount":    {en: "Create Account", bm: "Buat Akaun"},
	"dashboard":        {en: "Dashboard", bm: "Papan Pemuka"},
	"users":            {en: "Users", bm: "Pengguna"},
	"children":         {en: "Children", bm: "Kanak-Kanak"},
	"classes":          {en: "Classes", bm: "Kelas"},
	"students":         {en: "Students", bm: "Pelajar"},
	"attendance":       {en: "Attendance", bm: "Kehadiran"},
	"activities":       {en: "Activities", bm: "Aktiviti"},
	"announcements":    {en: "Announcements", bm: "Pengumuman"},
	"myChild":          {en: "My Child", bm: "Anak Saya"},
	"welcome":          {en: "Welcome", bm: "Selamat Datang"},
	"hello":            {en: "Hello", bm: "Helo"},
	"total":            {en: "Total", bm: "Jumlah"},
	"capacity":         {en: "Capacity", bm: "Kapasiti"},
	"recentActivity":   {en: "Recent Activity", bm: "Aktiviti Terkini"},
	"noticeBoard":      {en: "Notice Board", bm: "Papan Kenyataan"},
	"sendAnnouncement": {en: "Send Announcement", bm: "Hantar Pengumuman"},
	"present":          {en: "Present", bm: "Hadir"},
	"absent":           {en: "Absent", bm: "Tidak Hadir"},
	"checkIn":          {en: "Check In", bm: "Daftar Masuk"},
	"checkOut":         {en: "Check Out", bm: "Daftar Keluar"},
	"checkedIn":        {en: "Checked In", bm: "Telah Masuk"},
	"checkedOut":       {en: "Checked Out", bm: "Telah Keluar"},
	"notCheckedIn":     {en: "Not checked in", bm: "Belum masuk"},
	"notAssigned":      {en: "Not assigned", bm: "Belum ditetapkan"},
	"today":            {en: "Today", bm: "Hari Ini"},
	"age":              {en: "Age", bm: "Umur"},
	"invalidRole":      {en: "Invalid role", bm: "Peranan tidak sah"},
	"meal":             {en: "Meal", bm: "Makan"},
	"milk":             {en: "Milk", bm: "Susu"},
	"nap":              {en: "Nap", bm: "Tidur"},
	"diaper":           {en: "Diaper", bm: "Lampin"},
	"health":           {en: "Health", bm: "Kesihatan"},
	"photo":            {en: "Photo", bm: "Foto"},
	"learning":         {en: "Learning", bm: "Pembelajaran"},
	"play":             {en: "Play", bm: "Bermain"},
}
